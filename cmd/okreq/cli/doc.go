// Package cli implements the okreq command line.
//
// Each HTTP method is a subcommand taking a url:
//
//	okreq get https://api.example.com/users -H 'Accept: application/json' --query 0.name
//	okreq post /users --json '{"name":"ada"}' --config okreq.yaml
//	okreq post /upload --part title=report --part file=@report.pdf
//	okreq get /events --stream
//
// Configuration is read from okreq.yaml and OKREQ_* environment variables.
package cli
