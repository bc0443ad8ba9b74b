//go:build ignore

// concurrent-test runs the race-sensitive tests repeatedly, several packages
// at once, to shake out ordering bugs that a single run rarely hits.
//
//	go run scripts/concurrent-test.go
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"
)

type scenario struct {
	name     string
	packages []string
	run      string
	count    int
	parallel int
}

func main() {
	fmt.Println("=== Concurrent Test Runner ===")

	scenarios := []scenario{
		{
			name:     "Core pool under contention",
			packages: []string{"."},
			run:      "Concurrency|Lazy|Sweep",
			count:    20,
			parallel: 1,
		},
		{
			name:     "Driver packages sharing one database",
			packages: []string{"./pgxconn", "./sqlconn", "./dbutil"},
			count:    3,
			parallel: 3,
		},
	}

	failed := false
	for _, s := range scenarios {
		fmt.Printf("\n--- Running: %s ---\n", s.name)
		if !runScenario(s) {
			failed = true
		}
		time.Sleep(time.Second)
	}

	if failed {
		os.Exit(1)
	}
}

func runScenario(s scenario) bool {
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := true
	semaphore := make(chan struct{}, s.parallel)

	for _, pkg := range s.packages {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(pkg string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			args := []string{"test", "-json", "-race", fmt.Sprintf("-count=%d", s.count)}
			if s.run != "" {
				args = append(args, "-run", s.run)
			}
			args = append(args, pkg)

			var out bytes.Buffer
			cmd := exec.Command("go", args...)
			cmd.Stdout = &out
			cmd.Stderr = os.Stderr
			testErr := cmd.Run()

			// Summarize the JSON event stream with tparse.
			summary := exec.Command("go", "tool", "tparse", "-all")
			summary.Stdin = &out
			report, _ := summary.CombinedOutput()

			mu.Lock()
			defer mu.Unlock()
			if testErr != nil {
				ok = false
				fmt.Printf("FAIL: %s\n%s\n", pkg, report)
			} else {
				fmt.Printf("PASS: %s\n", pkg)
			}
		}(pkg)
	}

	wg.Wait()
	return ok
}
