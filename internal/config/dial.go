package config

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

// multiSubnetNet is the network name DSNs use to opt into parallel dialing.
const multiSubnetNet = "multisubnet"

const defaultPort = "3306"

func init() {
	mysql.RegisterDialContext(multiSubnetNet, dialMultiSubnet)
}

type dialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// dialMultiSubnet resolves every address behind the host and connects to all
// of them at once. The first successful connection wins.
func dialMultiSubnet(ctx context.Context, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		host, port = addr, defaultPort
	}
	ips, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", host, err)
	}

	targets := make([]string, 0, len(ips))
	for _, ip := range ips {
		targets = append(targets, net.JoinHostPort(ip, port))
	}
	var d net.Dialer
	return dialFirst(ctx, targets, d.DialContext)
}

func dialFirst(ctx context.Context, targets []string, dial dialFunc) (net.Conn, error) {
	if len(targets) == 0 {
		return nil, errors.New("no addresses to dial")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		conn net.Conn
		err  error
	}
	results := make(chan result, len(targets))
	for _, target := range targets {
		target := target
		go func() {
			conn, err := dial(ctx, "tcp", target)
			results <- result{conn: conn, err: err}
		}()
	}

	var errs []error
	for i := range targets {
		r := <-results
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		// Close connections that finish after the winner.
		go func(pending int) {
			for j := 0; j < pending; j++ {
				if late := <-results; late.conn != nil {
					late.conn.Close()
				}
			}
		}(len(targets) - i - 1)
		return r.conn, nil
	}
	return nil, errors.Join(errs...)
}
