// Package guard flips the application into test mode when imported,
// so package tests never trigger runtime side effects.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("POSUB_TEST_MODE") == "" {
			_ = os.Setenv("POSUB_TEST_MODE", "1")
		}
	})
}
