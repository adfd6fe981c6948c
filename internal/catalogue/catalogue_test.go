package catalogue

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayPrice(t *testing.T) {
	tests := []struct {
		name string
		svc  Service
		want string
	}{
		{"thousands", Service{Price: 95000}, "$95K"},
		{"from", Service{Price: 120000, PriceFrom: true}, "$120K+"},
		{"odd amount", Service{Price: 95500}, "$95500"},
		{"unpriced", Service{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.svc.DisplayPrice())
		})
	}
}

func TestResolve(t *testing.T) {
	c := Default()

	tests := []struct {
		name      string
		selection string
		key       string
		svcName   string
		price     string
	}{
		{"by id", "corte-caballero", "corte-caballero", "Corte Caballero", "$55K"},
		{"by name", "Corte Caballero", "corte-caballero", "Corte Caballero", "$55K"},
		{"case insensitive", "  corte caballero ", "corte-caballero", "Corte Caballero", "$55K"},
		{"legacy label", "Peinado Evento - $120K+", "peinado-evento", "Peinado Evento", "$120K+"},
		{"unknown with label", "Mechas Fantasía - $200K", "Mechas Fantasía - $200K", "Mechas Fantasía", "$200K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := c.Resolve(tt.selection)
			assert.Equal(t, tt.key, sel.Key)
			assert.Equal(t, tt.svcName, sel.Name)
			require.NotNil(t, sel.Price)
			assert.Equal(t, tt.price, *sel.Price)
		})
	}

	sel := c.Resolve("Corte Niño")
	assert.Equal(t, "Corte Niño", sel.Name)
	assert.Nil(t, sel.Price)
}

func TestSetPrice(t *testing.T) {
	c := Default()

	svc, err := c.SetPrice("babylights", 300000, false)
	require.NoError(t, err)
	assert.Equal(t, "$300K", svc.DisplayPrice())

	got, ok := c.Get("babylights")
	require.True(t, ok)
	assert.Equal(t, int64(300000), got.Price)

	sel := c.Resolve("Babylights")
	require.NotNil(t, sel.Price)
	assert.Equal(t, "$300K", *sel.Price)

	_, err = c.SetPrice("nope", 1000, false)
	assert.True(t, errors.Is(err, ErrUnknownService))

	_, err = c.SetPrice("babylights", -1, false)
	assert.Error(t, err)
}

func TestListIsACopy(t *testing.T) {
	c := Default()
	list := c.List()
	require.Len(t, list, 11)
	list[0].Price = 1

	got, _ := c.Get(list[0].ID)
	assert.Equal(t, int64(95000), got.Price)
}

func TestConcurrentAccess(t *testing.T) {
	c := Default()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = c.SetPrice("corte-caballero", int64(50000+i*1000), false)
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Resolve("Corte Caballero")
		}()
	}
	wg.Wait()
}
