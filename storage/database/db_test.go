package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	failures int
	calls    int
}

func (p *fakePinger) PingContext(context.Context) error {
	p.calls++
	if p.calls <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestPing(t *testing.T) {
	var slept []time.Duration
	sleepFunc = func(d time.Duration) { slept = append(slept, d) }
	defer func() { sleepFunc = time.Sleep }()

	t.Run("ready after retries", func(t *testing.T) {
		slept = nil
		p := &fakePinger{failures: 2}
		assert.NoError(t, Ping(context.Background(), p))
		assert.Equal(t, 3, p.calls)
		assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, slept)
	})

	t.Run("timeout", func(t *testing.T) {
		p := &fakePinger{failures: 100}
		err := Ping(context.Background(), p)
		assert.EqualError(t, err, "DB ping timeout: connection refused")
		assert.Equal(t, 30, p.calls)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := &fakePinger{failures: 100}
		assert.Error(t, Ping(ctx, p))
		assert.Equal(t, 1, p.calls)
	})
}

func TestMigrate(t *testing.T) {
	var gotCmd, gotDir string
	var gotArgs []string
	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		gotCmd, gotDir, gotArgs = command, dir, args
		if command == "lol" {
			return errors.New("\"lol\": no such command")
		}
		return nil
	}

	assert.NoError(t, Migrate(nil, "up-to", "2"))
	assert.Equal(t, "up-to", gotCmd)
	assert.Equal(t, migrationsDir, gotDir)
	assert.Equal(t, []string{"2"}, gotArgs)

	assert.EqualError(t, Migrate(nil, "lol"), "migrating database (lol): \"lol\": no such command")
}
