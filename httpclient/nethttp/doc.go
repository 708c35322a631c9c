// Package nethttp is the httpclient.Transport engine built on net/http and
// golang.org/x/net/http2.
//
// The engine performs one round trip per request: redirects are returned
// as-is and nothing is retried. Protocol preferences select the round
// tripper: "http/1.1" and "http/1.0" disable HTTP/2, "h2" negotiates it over
// TLS, and "h2_prior_knowledge" speaks cleartext HTTP/2 without upgrade.
//
//	client, err := nethttp.NewClient(httpclient.Config{
//	    BaseURL:   "http://localhost:8080",
//	    Protocols: []httpclient.Protocol{httpclient.ProtocolH2PriorKnowledge},
//	})
package nethttp
