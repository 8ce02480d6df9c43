// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"io"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args (usually os.Args[1:]).
// Unknown flags are reported as an error.
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-s remote store address used by the client
//	-d database DSN (postgres on the server, sqlite file on the client)
//	-u user data directory
//	-c/-config json file path with configs
//	-token token presented to the remote store
//	-account-type account type header value
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-request-limit requests allowed per request interval
//	-request-interval request budget window
//	-disable comma separated resource kinds to skip
//	-sync-interval manifest polling period
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-settings-sync", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var serverAddress NetAddress
	var storeAddress string
	var databaseDSN string
	var userDataDir string
	var jsonConfigPath string
	var authToken string
	var accountType string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var requestTimeout time.Duration
	var requestLimit int
	var requestInterval time.Duration
	var disabled string
	var syncInterval time.Duration

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&storeAddress, "s", "", "Remote store address")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&userDataDir, "u", "", "User data directory")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&authToken, "token", "", "Auth token")
	fs.StringVar(&accountType, "account-type", "", "Account type")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&tokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.IntVar(&requestLimit, "request-limit", 0, "Requests allowed per request interval")
	fs.DurationVar(&requestInterval, "request-interval", 0, "Request budget window (e.g., 5m)")
	fs.StringVar(&disabled, "disable", "", "Comma separated resource kinds excluded from sync")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Manifest polling period (e.g., 1m)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey:  tokenSignKey,
			TokenIssuer:   tokenIssuer,
			TokenDuration: tokenDuration,
			AuthToken:     authToken,
			AccountType:   accountType,
		},
		Storage: Storage{
			DB:    DB{DSN: databaseDSN},
			Files: Files{UserDataDir: userDataDir},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress:    storeAddress,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			RequestLimit:      requestLimit,
			RequestInterval:   requestInterval,
			DisabledResources: splitList(disabled),
		},
		Workers:      Workers{SyncInterval: syncInterval},
		JSONFilePath: jsonConfigPath,
	}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
