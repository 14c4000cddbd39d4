// Package testutil contains common test utilities.
package testutil

import (
	"os"
	"strconv"
	"time"
)

// TimeScaleEnv names the environment variable that scales timeouts in tests.
const TimeScaleEnv = "JAY_TEST_TIME_SCALE"

// Scaled returns d scaled by $JAY_TEST_TIME_SCALE. If the environment variable
// does not exist or contains an invalid value, the scale defaults to 1.
func Scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * getTestTimeScale())
}

func getTestTimeScale() float64 {
	env := os.Getenv(TimeScaleEnv)
	if env == "" {
		return 1
	}
	scale, err := strconv.ParseFloat(env, 64)
	if err != nil || scale <= 0 {
		return 1
	}
	return scale
}
