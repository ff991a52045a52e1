// Command ptc-core reads a RunInput JSON from a file argument (or stdin),
// drives the control core through the requested ticks, and writes the
// resulting RunOutput JSON to stdout (or a file).
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"

	"github.com/plarailers/ptc-core/internal/control"
)

func main() {
	app := cli.NewApp()
	app.Name = "ptc-core"
	app.Usage = "run the model-railway PTC supervisor over a scripted scenario"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "ticks",
			Usage: "number of ticks to run when the input JSON omits its own \"ticks\" field",
			Value: 1,
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "log15 level: crit, error, warn, info, debug",
			Value: "info",
		},
		cli.StringFlag{
			Name:  "input",
			Usage: "path to the RunInput JSON file (default: stdin)",
		},
		cli.StringFlag{
			Name:  "output",
			Usage: "path to write the RunOutput JSON (default: stdout)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "ptc-core: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	data, err := readInput(c.String("input"))
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	result, err := control.RunJSONWithDefaults(string(data), c.Int("ticks"), c.String("log-level"))
	if err != nil {
		return fmt.Errorf("running: %w", err)
	}

	return writeOutput(c.String("output"), result)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path, result string) error {
	if path == "" {
		fmt.Println(result)
		return nil
	}
	return os.WriteFile(path, []byte(result+"\n"), 0o644)
}
