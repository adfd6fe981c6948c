// Package catalogue holds the salon's services and their displayed prices.
// Booking and price display both read from the same table.
package catalogue

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrUnknownService is returned by SetPrice for ids not in the catalogue.
var ErrUnknownService = errors.New("unknown service")

// Service is one bookable catalogue entry. Price is in Colombian pesos.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	PriceFrom   bool   `json:"priceFrom"`
}

// DisplayPrice renders the price the way the salon advertises it: "$95K", "$120K+".
func (s Service) DisplayPrice() string {
	if s.Price <= 0 {
		return ""
	}
	var label string
	if s.Price%1000 == 0 {
		label = fmt.Sprintf("$%dK", s.Price/1000)
	} else {
		label = fmt.Sprintf("$%d", s.Price)
	}
	if s.PriceFrom {
		label += "+"
	}
	return label
}

// Selection is the outcome of resolving a booking's service selection.
type Selection struct {
	Key   string
	Name  string
	Price *string
}

// Catalogue is safe for concurrent use.
type Catalogue struct {
	mu       sync.RWMutex
	services []Service
	byID     map[string]int
}

// New builds a catalogue preserving the given order.
func New(services []Service) *Catalogue {
	c := &Catalogue{
		services: make([]Service, len(services)),
		byID:     make(map[string]int, len(services)),
	}
	copy(c.services, services)
	for i, s := range c.services {
		c.byID[s.ID] = i
	}
	return c
}

// Default returns the salon's standard menu.
func Default() *Catalogue {
	return New(DefaultServices)
}

// List returns a copy of every service in menu order.
func (c *Catalogue) List() []Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// Get looks a service up by id.
func (c *Catalogue) Get(id string) (Service, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Service{}, false
	}
	return c.services[i], true
}

// SetPrice changes the displayed price of a service.
func (c *Catalogue) SetPrice(id string, price int64, from bool) (Service, error) {
	if price < 0 {
		return Service{}, fmt.Errorf("price must not be negative")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[id]
	if !ok {
		return Service{}, fmt.Errorf("%w: %s", ErrUnknownService, id)
	}
	c.services[i].Price = price
	c.services[i].PriceFrom = from
	return c.services[i], nil
}

// Resolve maps a booking's service selection to a key, display name and price.
// The selection may be a service id, a service name, or a "Name - $Price" label.
// Unknown selections are kept as free text.
func (c *Catalogue) Resolve(selection string) Selection {
	selection = strings.TrimSpace(selection)
	name, label, _ := strings.Cut(selection, " - ")
	name = strings.TrimSpace(name)
	label = strings.TrimSpace(label)

	if svc, ok := c.lookup(selection, name); ok {
		sel := Selection{Key: svc.ID, Name: svc.Name}
		if p := svc.DisplayPrice(); p != "" {
			sel.Price = &p
		}
		return sel
	}

	sel := Selection{Key: selection, Name: name}
	if label != "" {
		sel.Price = &label
	}
	return sel
}

func (c *Catalogue) lookup(selection, name string) (Service, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.byID[selection]; ok {
		return c.services[i], true
	}
	for _, s := range c.services {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return Service{}, false
}
