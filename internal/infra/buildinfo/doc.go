// Package buildinfo reports the version of roster-cli.
//
// Release builds inject values with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/roster-go/internal/infra/buildinfo.Version=v1.2.0 \
//	  -X github.com/yndnr/roster-go/internal/infra/buildinfo.Commit=abc123"
//
// Without ldflags the module version and VCS stamp embedded by the Go
// toolchain are used where available.
package buildinfo
