// Command minol-decode decodes captured bit-rows from the command line
// or stdin and prints the resulting records as JSON. Rows use the
// hex[/bitcount] form produced by the capture pipeline.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jordens/rtl-433/pkg/bitbuffer"
	"github.com/jordens/rtl-433/pkg/capture"
	"github.com/jordens/rtl-433/pkg/decoder"
	_ "github.com/jordens/rtl-433/pkg/decoder/minol"
)

var version = "dev"

func main() {
	device := flag.String("device", "Minol", "Device decoder to use")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("minol-decode %s\n", version)
		os.Exit(0)
	}

	dev, err := decoder.Lookup(*device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "minol-decode: %v\n", err)
		os.Exit(2)
	}

	if flag.NArg() > 0 {
		failed := 0
		for _, arg := range flag.Args() {
			if err := decodeLine(dev, arg); err != nil {
				fmt.Fprintf(os.Stderr, "minol-decode: %s: %v\n", arg, err)
				failed++
			}
		}
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	failed := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := decodeLine(dev, line); err != nil {
			fmt.Fprintf(os.Stderr, "minol-decode: %s: %v\n", line, err)
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "minol-decode: %v\n", err)
		os.Exit(2)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func decodeLine(dev *decoder.Device, line string) error {
	row, err := capture.ParseRow(line)
	if err != nil {
		return err
	}

	rec, err := dev.Decode(bitbuffer.NewBuffer(row))
	if err != nil {
		return err
	}

	out, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
