// Package version reports the okreq build version.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/ssj4429108/OkRequest/version.Version=1.0.0" ./cmd/okreq
//
// Unset values fall back to the VCS stamps recorded by the Go toolchain.
package version
