// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config contains the structures used to represent the YAML file
// that configures a zencontrol bridge.
//
// The file schema starts with the type Root.
//
// Configuration
//
// The configuration yaml file is expected to look like this:
//
//   controllers:
//     - id: 1
//       name: "lounge"
//       host: "192.168.1.50"
//       port: 6969
//
//   events:
//     unicast: false
//     listen_ip: ""
//     listen_port: 6969
//
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net"

	"gopkg.in/yaml.v2"
)

// Root is the configuration file format.
type Root struct {
	Controllers []Controller `yaml:"controllers"`
	Events      Events       `yaml:"events"`

	_ struct{}
}

// LoadYaml loads the config from serialized yaml.
//
// It deserializes with strict field checking, so a typo'd key fails loading
// instead of silently being ignored, then validates the result.
func (r *Root) LoadYaml(b []byte) error {
	d := yaml.NewDecoder(bytes.NewReader(b))
	d.SetStrict(true)
	if err := d.Decode(r); err != nil {
		return err
	}
	return r.validate()
}

func (r *Root) validate() error {
	if len(r.Controllers) == 0 {
		return errors.New("config: at least one controller is required")
	}
	seen := map[int]bool{}
	for i := range r.Controllers {
		if err := r.Controllers[i].validate(); err != nil {
			return err
		}
		if seen[r.Controllers[i].ID] {
			return fmt.Errorf("config: duplicate controller id %d", r.Controllers[i].ID)
		}
		seen[r.Controllers[i].ID] = true
	}
	return r.Events.validate()
}

// Controller is an element in the "controllers" section: one TPI Advanced
// controller to connect to.
type Controller struct {
	ID    int
	Name  string
	Label string
	Host  string
	Port  int

	// MAC is the controller's hardware address. Optional; when present it
	// must parse as a MAC address, but it is not used to match events:
	// events are matched to controllers by source IP only.
	MAC string

	// Filtering is copied onto entity.Controller. Nothing in this repository
	// sends it to the controller, so it does not by itself change which
	// events the controller emits.
	Filtering bool

	_ struct{}
}

func (c *Controller) validate() error {
	if c.Name == "" {
		return errors.New("config: controller name is required")
	}
	if c.Host == "" {
		return fmt.Errorf("config: controller %q: host is required", c.Name)
	}
	if net.ParseIP(c.Host) == nil {
		if _, err := net.LookupHost(c.Host); err != nil {
			// Name resolution failures at load time are not fatal: the host
			// may come up later. Only reject syntactically empty values
			// above.
			_ = err
		}
	}
	if c.Port <= 0 || c.Port >= 65536 {
		return fmt.Errorf("config: controller %q: port is invalid", c.Name)
	}
	if c.MAC != "" {
		if _, err := net.ParseMAC(c.MAC); err != nil {
			return fmt.Errorf("config: controller %q: mac: %w", c.Name, err)
		}
	}
	return nil
}

// Events is the "events" section: how this bridge listens for push events.
type Events struct {
	// Unicast selects unicast event delivery over the default multicast
	// group (239.255.90.67:6969). Each controller must be separately
	// configured (via its own TPI Advanced settings) to target this host
	// when Unicast is true.
	Unicast bool

	// ListenIP is the local address to bind the event listener to. Empty
	// means all interfaces.
	ListenIP string `yaml:"listen_ip"`

	// ListenPort is the local UDP port to bind the event listener to.
	// Defaults to 6969 (the standard TPI Advanced event port) when zero.
	ListenPort int `yaml:"listen_port"`

	_ struct{}
}

func (e *Events) validate() error {
	if e.ListenIP != "" && net.ParseIP(e.ListenIP) == nil {
		return fmt.Errorf("config: events: listen_ip %q is not a valid IP", e.ListenIP)
	}
	if e.ListenPort < 0 || e.ListenPort >= 65536 {
		return errors.New("config: events: listen_port is invalid")
	}
	return nil
}
