package main

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"symkernel": main1,
	}))
}

// main1 lets testscript drive the binary's entry point in-process without
// a build step; it mirrors main but returns an exit code instead of
// calling os.Exit directly.
func main1() int {
	if runSmokeTest() {
		return 0
	}
	return 1
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
	})
}
