// Command mapstats prints summary statistics for a projected map written by
// the simulator's text writer.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

func main() {
	logCompress := flag.Bool("log", false, "Report stats of log10(1 + value) instead of raw values")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: mapstats [-log] <map.txt>")
	}

	values, rows, cols, err := readMap(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading map: %v", err)
	}
	if *logCompress {
		for i, v := range values {
			values[i] = log10p1(v)
		}
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	fmt.Printf("shape: %dx%d\n", rows, cols)
	fmt.Printf("mean:  %.6e\n", stat.Mean(values, nil))
	fmt.Printf("std:   %.6e\n", stat.StdDev(values, nil))
	fmt.Printf("min:   %.6e\n", min)
	fmt.Printf("max:   %.6e\n", max)
}

func readMap(path string) (values []float64, rows, cols int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, 0, 0, fmt.Errorf("row %d has %d columns, want %d", rows, len(fields), cols)
		}
		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, 0, 0, fmt.Errorf("row %d: %w", rows, err)
			}
			values = append(values, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, 0, 0, err
	}
	if len(values) == 0 {
		return nil, 0, 0, fmt.Errorf("map file is empty")
	}
	return values, rows, cols, nil
}

// log10p1 applies the log compression downstream consumers use; empty
// cells stay at zero.
func log10p1(v float64) float64 {
	if v < 0 {
		v = 0
	}
	return math.Log10(1 + v)
}
