// Package preflight provides startup validation checks.
package preflight

import (
	"fmt"
	"os"
	"os/exec"
)

// Check represents the result of a single preflight check.
type Check struct {
	Name    string
	Passed  bool
	Message string
}

// Result holds the results of all preflight checks.
type Result struct {
	Checks []Check
	Passed bool
}

// String returns a human-readable summary of the check.
func (c Check) String() string {
	status := "✓"
	if !c.Passed {
		status = "✗"
	}
	return fmt.Sprintf("  %s %s: %s", status, c.Name, c.Message)
}

// RunAll executes all preflight checks.
func RunAll(launchBinary, recordsPath string) *Result {
	result := &Result{
		Checks: make([]Check, 0, 2),
		Passed: true,
	}

	for _, check := range []Check{
		checkLaunchBinary(launchBinary),
		checkRecordsFile(recordsPath),
	} {
		result.Checks = append(result.Checks, check)
		if !check.Passed {
			result.Passed = false
		}
	}

	return result
}

// checkLaunchBinary verifies the pipeline launcher resolves on PATH.
func checkLaunchBinary(binary string) Check {
	check := Check{Name: "launch binary"}

	if binary == "" {
		check.Message = "invocation pattern yields no executable"
		return check
	}

	path, err := exec.LookPath(binary)
	if err != nil {
		check.Message = fmt.Sprintf("%s not found on PATH", binary)
		return check
	}

	check.Passed = true
	check.Message = path
	return check
}

// checkRecordsFile verifies the test-record file is readable.
func checkRecordsFile(path string) Check {
	check := Check{Name: "test records"}

	f, err := os.Open(path)
	if err != nil {
		check.Message = err.Error()
		return check
	}
	f.Close()

	check.Passed = true
	check.Message = path
	return check
}

// PrintResults prints all check results to stdout.
func PrintResults(result *Result) {
	fmt.Println("Preflight checks:")
	for _, check := range result.Checks {
		fmt.Println(check)
	}
	fmt.Println()
}
