// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package api

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/zencontrol/zencontrol-go/exceptions"
	zio "github.com/zencontrol/zencontrol-go/io"
)

// ReturnAs selects how send_basic decodes an ANSWER payload.
type ReturnAs int

const (
	ReturnAsOK ReturnAs = iota
	ReturnAsBytes
	ReturnAsString
	ReturnAsIntList // 8-bit bitmap expanded to a sorted list of set indices
	ReturnAsInt     // big-endian unsigned integer, width = len(payload)
	ReturnAsBool
)

// Protocol holds the per-controller Client instances, the cacheable-query
// cache, and typed wrappers around every documented TPI Advanced command.
type Protocol struct {
	mu      sync.RWMutex
	clients map[int]*zio.Client

	cache *Cache
}

// NewProtocol constructs an empty Protocol with a fresh cache.
func NewProtocol() *Protocol {
	return &Protocol{clients: map[int]*zio.Client{}, cache: NewCache()}
}

// Cache exposes the protocol's cache so an external persistence layer can
// snapshot it (see spec §6's "persisted state" note).
func (p *Protocol) Cache() *Cache { return p.cache }

// AddController registers a controller's Client under id and opens its
// socket. The caller owns the Client's lifecycle beyond this point only
// through Protocol; entity.Controller holds a non-owning back-reference by
// id, not the Client itself.
func (p *Protocol) AddController(ctx context.Context, id int, host string, port int) error {
	c := zio.NewClient(host, port)
	if err := c.Open(ctx); err != nil {
		return &exceptions.ConnectionError{Op: "open", Err: err}
	}
	p.mu.Lock()
	p.clients[id] = c
	p.mu.Unlock()
	return nil
}

// Close tears down every registered controller's Client.
func (p *Protocol) Close() error {
	p.mu.Lock()
	clients := p.clients
	p.clients = map[int]*zio.Client{}
	p.mu.Unlock()
	var err error
	for _, c := range clients {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

func (p *Protocol) client(controllerID int) (*zio.Client, error) {
	p.mu.RLock()
	c, ok := p.clients[controllerID]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("api: controller %d not registered", controllerID)
	}
	return c, nil
}

// sendOpts bundles the optional per-call overrides every command wrapper
// may pass down to send_basic / send_colour / send_dynamic.
type sendOpts struct {
	Timeout time.Duration
	Retries int
}

// defaultRetries matches a conservative TPI Advanced default: try twice more
// after the initial attempt.
const defaultRetries = 2

// sendBasic implements the BASIC request-kind dispatch helper: fixed 4-byte
// payload [address, d0, d1, d2], response-type mapped per returnAs.
func (p *Protocol) sendBasic(ctx context.Context, controllerID int, opcode Opcode, address byte, data []byte, returnAs ReturnAs, cacheable bool, opts sendOpts) (interface{}, error) {
	key := CacheKey{ControllerID: controllerID, Opcode: opcode, Payload: string(append([]byte{address}, data...))}
	if cacheable {
		if cached, respType, ok := p.cache.Get(key); ok {
			return p.decodeResponse(respType, cached, returnAs, opcode)
		}
	}
	c, err := p.client(controllerID)
	if err != nil {
		return nil, err
	}
	req := &zio.Request{Cmd: opcode, Kind: zio.KindBasic, Address: address, Data: data}
	resp, err := c.Send(ctx, req, opts.Timeout, retriesOrDefault(opts.Retries))
	if err != nil {
		return nil, &exceptions.ConnectionError{Op: "send", Err: err}
	}
	if resp.Timeout {
		return nil, &exceptions.TimeoutError{Attempts: resp.Attempts, Elapsed: resp.Elapsed}
	}
	if cacheable && resp.Type == zio.RespAnswer {
		p.cache.Set(key, resp.Data, resp.Type)
	}
	return p.decodeResponse(resp.Type, resp.Data, returnAs, opcode)
}

// sendColour implements the DALI_COLOUR request-kind dispatch helper: the
// colour's 6-byte command encoding (tag + 5 data bytes) preceded by level,
// inside the fixed 8-byte DALI_COLOUR payload (address + level + tag + 5
// data bytes).
func (p *Protocol) sendColour(ctx context.Context, controllerID int, opcode Opcode, address byte, colour Colour, level byte, opts sendOpts) (bool, error) {
	data := append([]byte{level}, colour.EncodeForSet()...)
	c, err := p.client(controllerID)
	if err != nil {
		return false, err
	}
	req := &zio.Request{Cmd: opcode, Kind: zio.KindDALIColour, Address: address, Data: data}
	resp, err := c.Send(ctx, req, opts.Timeout, retriesOrDefault(opts.Retries))
	if err != nil {
		return false, &exceptions.ConnectionError{Op: "send", Err: err}
	}
	if resp.Timeout {
		return false, &exceptions.TimeoutError{Attempts: resp.Attempts, Elapsed: resp.Elapsed}
	}
	return resultAsBool(resp, opcode)
}

// sendDynamic implements the DYNAMIC request-kind dispatch helper: a
// length-prefixed payload of up to 255 bytes.
func (p *Protocol) sendDynamic(ctx context.Context, controllerID int, opcode Opcode, data []byte, returnAs ReturnAs, opts sendOpts) (interface{}, error) {
	c, err := p.client(controllerID)
	if err != nil {
		return nil, err
	}
	req := &zio.Request{Cmd: opcode, Kind: zio.KindDynamic, Data: data}
	resp, err := c.Send(ctx, req, opts.Timeout, retriesOrDefault(opts.Retries))
	if err != nil {
		return nil, &exceptions.ConnectionError{Op: "send", Err: err}
	}
	if resp.Timeout {
		return nil, &exceptions.TimeoutError{Attempts: resp.Attempts, Elapsed: resp.Elapsed}
	}
	return p.decodeResponse(resp.Type, resp.Data, returnAs, opcode)
}

func retriesOrDefault(r int) int {
	if r <= 0 {
		return defaultRetries
	}
	return r
}

// decodeResponse maps a response's type and payload into the caller's
// requested shape, per spec's response-type table.
func (p *Protocol) decodeResponse(respType byte, data []byte, returnAs ReturnAs, opcode Opcode) (interface{}, error) {
	switch respType {
	case zio.RespOK:
		if returnAs == ReturnAsOK {
			return true, nil
		}
		return nil, fmt.Errorf("api: opcode 0x%02x: got OK, want data for return-as %d", opcode, returnAs)
	case zio.RespAnswer:
		return decodeAs(data, returnAs)
	case zio.RespNoAnswer:
		if returnAs == ReturnAsOK {
			return false, nil
		}
		return nil, nil
	case zio.RespError:
		code := exceptions.ErrorCode(0)
		if len(data) > 0 {
			code = exceptions.ErrorCode(data[0])
		}
		log.Printf("api: opcode 0x%02x: controller error %s", opcode, code)
		return nil, nil
	default:
		return nil, fmt.Errorf("api: opcode 0x%02x: unexpected response type 0x%02x", opcode, respType)
	}
}

func decodeAs(data []byte, returnAs ReturnAs) (interface{}, error) {
	switch returnAs {
	case ReturnAsBytes:
		return data, nil
	case ReturnAsString:
		if !isASCII(data) {
			return nil, nil
		}
		return string(data), nil
	case ReturnAsIntList:
		return bitmapToList(data), nil
	case ReturnAsInt:
		return bytesToUint(data), nil
	case ReturnAsBool:
		return len(data) > 0 && data[0] != 0, nil
	default:
		return data, nil
	}
}

func resultAsBool(resp *zio.Response, opcode Opcode) (bool, error) {
	switch resp.Type {
	case zio.RespOK:
		return true, nil
	case zio.RespNoAnswer:
		return false, nil
	case zio.RespError:
		code := exceptions.ErrorCode(0)
		if len(resp.Data) > 0 {
			code = exceptions.ErrorCode(resp.Data[0])
		}
		log.Printf("api: opcode 0x%02x: controller error %s", opcode, code)
		return false, nil
	default:
		return false, fmt.Errorf("api: opcode 0x%02x: unexpected response type 0x%02x", opcode, resp.Type)
	}
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c > 127 {
			return false
		}
	}
	return true
}

// bitmapToList expands an 8-bit-per-byte bitmap into a sorted list of set
// bit indices, LSB of byte 0 is index 0.
func bitmapToList(data []byte) []int {
	var out []int
	for byteIdx, b := range data {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(bit)) != 0 {
				out = append(out, byteIdx*8+bit)
			}
		}
	}
	sort.Ints(out)
	return out
}

func bytesToUint(data []byte) uint64 {
	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	return v
}
