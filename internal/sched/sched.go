// Package sched runs render jobs on a cron schedule for unattended
// operation.
package sched

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Add registers job under a standard 5-field cron spec.
func (s *Scheduler) Add(spec string, name string, job func()) error {
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("sched: register %s: %w", name, err)
	}
	log.Printf("sched: registered %s at %q", name, spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("sched: started")
}

// Stop stops scheduling; running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("sched: stopped")
}
