package main

import (
	"dxfmetrics/pkg/analyze"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	jsonOut := flag.Bool("json", false, "print results as JSON for the estimating tool")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Printf("usage: %s [-json] dxf-file...\n", os.Args[0])
		return
	}

	var results []*analyze.Result
	failed := false
	for _, path := range flag.Args() {
		result, err := analyze.Analyze(path)
		if err != nil {
			log.Printf("analyze error: %s", err)
			failed = true
			continue
		}
		results = append(results, result)
	}

	if *jsonOut {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			log.Fatalf("marshal error: %s", err)
		}
		fmt.Println(string(data))
	} else {
		for _, r := range results {
			fmt.Printf("%s\n", r.Path)
			fmt.Printf("  scale factor %g\n", r.ScaleFactor)
			fmt.Printf("  area         %.2f cm2\n", r.AreaCm2)
			fmt.Printf("  cut length   %.3f m\n", r.LengthM)
			fmt.Printf("  size         %.1f x %.1f mm\n", r.WidthMm, r.HeightMm)
		}
	}

	if failed {
		os.Exit(1)
	}
}
