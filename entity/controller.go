// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package entity implements the object model a zencontrol bridge exposes to
// its integration: Controller, Light, Group, Button, MotionSensor, Profile
// and SystemVariable, fanned out from decoded push events and backed by
// api.Protocol for commands and queries. Entities hold a non-owning
// reference to their controller's id, never to the underlying client, so
// their lifetime never accidentally extends a connection's.
package entity

import "github.com/zencontrol/zencontrol-go/config"

// Controller is one physical TPI Advanced controller, as configured.
type Controller struct {
	ID        int
	Name      string
	Host      string
	Port      int
	Filtering bool

	_ struct{}
}

func controllerFromConfig(c *config.Controller) Controller {
	return Controller{ID: c.ID, Name: c.Name, Host: c.Host, Port: c.Port, Filtering: c.Filtering}
}
