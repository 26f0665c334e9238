//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "promptkit"

// Default target builds the binary.
var Default = Build

// Build compiles promptkit into ./bin.
func Build() error {
	if err := os.MkdirAll("bin", 0o755); err != nil {
		return err
	}
	return sh.RunV("go", "build", "-o", filepath.Join("bin", binary), "./cmd/promptkit")
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("bin")
}

// Install copies the binary into GOBIN.
func Install() error {
	return sh.RunV("go", "install", "./cmd/promptkit")
}

type Test mg.Namespace

// All runs the unit tests.
func (Test) All() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs the unit tests with the race detector.
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Coverage writes coverage.out and prints the per-function summary.
func (Test) Coverage() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

type Lint mg.Namespace

// All runs every lint target.
func (Lint) All() {
	mg.SerialDeps(Lint.Format, Lint.Vet)
}

// Format fails when files need gofmt.
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// QA runs lint and tests.
func QA() {
	mg.SerialDeps(Lint.All, Test.All)
}
