package lib

import (
	"testing"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
)

func TestNewSchedulerOverridesSingleton(t *testing.T) {
	custom, err := gocron.NewScheduler()
	assert.NoError(t, err)
	defer func() { _ = custom.Shutdown() }()

	assert.Equal(t, custom, NewScheduler(custom))
	assert.Equal(t, custom, GetScheduler())
}

func TestCreateCronJob(t *testing.T) {
	sched, err := gocron.NewScheduler()
	assert.NoError(t, err)
	defer func() { _ = sched.Shutdown() }()
	NewScheduler(sched)

	id, err := CreateCronJob("*/5 * * * *", func() {}, "noop")
	assert.NoError(t, err)
	assert.NotNil(t, id)

	_, err = CreateCronJob("not a cron expression", func() {}, "broken")
	assert.Error(t, err)
}
