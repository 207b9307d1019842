// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"log"

	"github.com/zencontrol/zencontrol-go/config"
	"github.com/zencontrol/zencontrol-go/entity"
	zio "github.com/zencontrol/zencontrol-go/io"
)

// newListener starts the process-wide event listener in the mode named by
// cfg.Events, defaulting to the well-known multicast group.
func newListener(cfg *config.Events) (*zio.Listener, error) {
	if cfg.Unicast {
		port := cfg.ListenPort
		if port == 0 {
			port = zio.MulticastPort
		}
		return zio.NewUnicastListener(cfg.ListenIP, port)
	}
	return zio.NewMulticastListener(nil)
}

func run(ctx context.Context, cfg *config.Root) error {
	c, err := entity.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		log.Printf("closing bridge")
		if err := c.Close(); err != nil {
			log.Printf("close: %s", err)
		}
	}()

	c.Callbacks = entity.Callbacks{
		OnConnect:         func(id int) { log.Printf("controller %d: connected", id) },
		OnDisconnect:      func(id int) { log.Printf("controller %d: disconnected", id) },
		OnLightChange:     func(l *entity.Light) { log.Printf("light %s: level=%d", l.Name, l.Level()) },
		OnGroupChange:     func(g *entity.Group) { level, unknown := g.Level(); log.Printf("group %s: level=%d discoordinated=%v", g.Name, level, unknown) },
		OnButtonPress:     func(b *entity.Button) { log.Printf("button %s: press", b.Name) },
		OnButtonLongPress: func(b *entity.Button) { log.Printf("button %s: long press", b.Name) },
		OnMotionEvent:     func(m *entity.MotionSensor) { log.Printf("motion %s: occupied=%v", m.Name, m.Occupied()) },
		OnProfileChange:   func(p *entity.Profile) { log.Printf("profile %s: current=%v", p.Name, p.Current()) },
		OnSystemVariableChange: func(s *entity.SystemVariable, v float64) {
			log.Printf("sysvar %s: value=%v", s.Name, v)
		},
	}

	l, err := newListener(&cfg.Events)
	if err != nil {
		return err
	}
	defer l.Close()

	log.Printf("bridge initialized, listening for events")
	for {
		select {
		case ev, ok := <-l.Events():
			if !ok {
				return nil
			}
			c.Dispatch(ev)
		case <-ctx.Done():
			return nil
		}
	}
}
