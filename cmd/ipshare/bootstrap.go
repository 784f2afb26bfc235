package main

import (
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/luxfi/ipshare/pkg/party"
	"github.com/luxfi/ipshare/pkg/transport"
	"golang.org/x/sync/errgroup"
)

// parsePeerAddrs parses "id=host:port" flag values into a map keyed by
// peer id.
func parsePeerAddrs(specs []string) (map[party.ID]string, error) {
	addrs := make(map[party.ID]string, len(specs))
	for _, spec := range specs {
		idStr, addr, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("ipshare: --peer must be id=host:port, got %q", spec)
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			return nil, fmt.Errorf("ipshare: bad peer id in %q: %w", spec, err)
		}
		addrs[party.ID(id)] = addr
	}
	return addrs, nil
}

// bootstrapMesh establishes a transport.Channel to every peer in addrs.
// Every unordered pair of participants connects exactly once: the
// higher-numbered party listens, the lower-numbered party dials, and the
// dialer announces its own id as the first 8 bytes on the wire so the
// listener (which may be accepting several such connections at once) can
// tell which logical peer just connected. This party first accepts every
// lower-numbered peer concurrently via errgroup, and only once all of
// those have connected does it dial its higher-numbered peers, again
// concurrently.
func bootstrapMesh(me party.ID, listenAddr string, addrs map[party.ID]string) (map[party.ID]*transport.Channel, error) {
	var higherPeers []party.ID
	var lowerPeers []party.ID
	for id := range addrs {
		if id > me {
			higherPeers = append(higherPeers, id)
		} else if id < me {
			lowerPeers = append(lowerPeers, id)
		}
	}

	channels := make(map[party.ID]*transport.Channel, len(addrs))
	var g errgroup.Group

	if len(lowerPeers) > 0 {
		ln, err := net.Listen("tcp", listenAddr)
		if err != nil {
			return nil, fmt.Errorf("ipshare: listen on %s: %w", listenAddr, err)
		}
		defer ln.Close()

		results := make(chan struct {
			id   party.ID
			conn net.Conn
		}, len(lowerPeers))

		for range lowerPeers {
			g.Go(func() error {
				conn, err := ln.Accept()
				if err != nil {
					return fmt.Errorf("ipshare: accept: %w", err)
				}
				var idBuf [8]byte
				if _, err := readFull(conn, idBuf[:]); err != nil {
					return fmt.Errorf("ipshare: reading peer id: %w", err)
				}
				results <- struct {
					id   party.ID
					conn net.Conn
				}{party.ID(binary.BigEndian.Uint64(idBuf[:])), conn}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		close(results)
		for r := range results {
			channels[r.id] = transport.New(r.conn)
		}
	}

	var g2 errgroup.Group
	dialResults := make(chan struct {
		id   party.ID
		conn net.Conn
	}, len(higherPeers))
	for _, id := range higherPeers {
		id := id
		g2.Go(func() error {
			conn, err := net.Dial("tcp", addrs[id])
			if err != nil {
				return fmt.Errorf("ipshare: dial %s (peer %s): %w", addrs[id], id, err)
			}
			var idBuf [8]byte
			binary.BigEndian.PutUint64(idBuf[:], uint64(me))
			if _, err := conn.Write(idBuf[:]); err != nil {
				return fmt.Errorf("ipshare: announcing id to peer %s: %w", id, err)
			}
			dialResults <- struct {
				id   party.ID
				conn net.Conn
			}{id, conn}
			return nil
		})
	}
	if err := g2.Wait(); err != nil {
		return nil, err
	}
	close(dialResults)
	for r := range dialResults {
		channels[r.id] = transport.New(r.conn)
	}

	return channels, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
