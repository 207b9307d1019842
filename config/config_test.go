// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleConf = `
controllers:
  - id: 1
    name: "lounge"
    host: "192.168.1.50"
    port: 6969
  - id: 2
    name: "kitchen"
    host: "192.168.1.51"
    port: 6969
    mac: "00:11:22:33:44:55"
    filtering: true

events:
  unicast: false
  listen_port: 6969
`

func TestRoot_LoadYaml(t *testing.T) {
	r := Root{}
	if err := r.LoadYaml([]byte(sampleConf)); err != nil {
		t.Fatal(err)
	}
	want := Root{
		Controllers: []Controller{
			{ID: 1, Name: "lounge", Host: "192.168.1.50", Port: 6969},
			{ID: 2, Name: "kitchen", Host: "192.168.1.51", Port: 6969, MAC: "00:11:22:33:44:55", Filtering: true},
		},
		Events: Events{ListenPort: 6969},
	}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("LoadYaml mismatch (-want +got):\n%s", diff)
	}
}

func TestRoot_LoadYaml_RejectsUnknownField(t *testing.T) {
	r := Root{}
	err := r.LoadYaml([]byte(sampleConf + "\nbogus_field: true\n"))
	if err == nil {
		t.Fatal("expected strict decoding to reject an unknown top-level field")
	}
}

func TestRoot_LoadYaml_RejectsEmptyControllers(t *testing.T) {
	r := Root{}
	if err := r.LoadYaml([]byte("controllers: []\n")); err == nil {
		t.Fatal("expected an error when no controllers are configured")
	}
}

func TestRoot_LoadYaml_RejectsDuplicateID(t *testing.T) {
	const conf = `
controllers:
  - id: 1
    name: "a"
    host: "10.0.0.1"
    port: 6969
  - id: 1
    name: "b"
    host: "10.0.0.2"
    port: 6969
`
	r := Root{}
	if err := r.LoadYaml([]byte(conf)); err == nil {
		t.Fatal("expected an error for duplicate controller ids")
	}
}

func TestRoot_LoadYaml_RejectsBadPort(t *testing.T) {
	const conf = `
controllers:
  - id: 1
    name: "a"
    host: "10.0.0.1"
    port: 99999
`
	r := Root{}
	if err := r.LoadYaml([]byte(conf)); err == nil {
		t.Fatal("expected an error for an out-of-range port")
	}
}
