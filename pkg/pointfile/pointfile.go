// Package pointfile parses field point listings into survey points.
// Two common layouts are supported: "name,x,y,z[,code]" and the PNEZD
// convention "name,northing,easting,z,description" used by total
// station data collectors.
package pointfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"topocad/pkg/survey"
)

// Layout selects how coordinate columns are interpreted
type Layout int

const (
	// LayoutNXYZ is name, easting (x), northing (y), elevation
	LayoutNXYZ Layout = iota
	// LayoutPNEZD is name, northing, easting, elevation, description
	LayoutPNEZD
)

func (l Layout) String() string {
	if l == LayoutPNEZD {
		return "pnezd"
	}
	return "nxyz"
}

// ParseLayout maps a flag value to a Layout
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nxyz", "xyz":
		return LayoutNXYZ, nil
	case "pnezd", "pnez":
		return LayoutPNEZD, nil
	}
	return LayoutNXYZ, fmt.Errorf("unknown point file layout %q", s)
}

// Parse reads a point file and returns the points it lists.
// The delimiter is detected per file: comma, semicolon or whitespace.
func Parse(filename string, layout Layout) ([]survey.Point, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return parse(file, layout)
}

func parse(reader io.Reader, layout Layout) ([]survey.Point, error) {
	scanner := bufio.NewScanner(reader)
	points := []survey.Point{}
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitFields(line)
		if looksLikeHeader(fields) {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("line %d: expected at least 4 columns, got %d", lineNo, len(fields))
		}

		a, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad coordinate %q: %w", lineNo, fields[1], err)
		}
		b, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad coordinate %q: %w", lineNo, fields[2], err)
		}
		z, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad elevation %q: %w", lineNo, fields[3], err)
		}

		point := survey.Point{Name: fields[0], Z: z}
		switch layout {
		case LayoutPNEZD:
			point.Y, point.X = a, b
		default:
			point.X, point.Y = a, b
		}
		if len(fields) > 4 {
			point.Code = fields[4]
		}
		points = append(points, point)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading point file: %w", err)
	}
	return points, nil
}

// splitFields splits on the first delimiter found in the line
func splitFields(line string) []string {
	var raw []string
	switch {
	case strings.Contains(line, ","):
		raw = strings.Split(line, ",")
	case strings.Contains(line, ";"):
		raw = strings.Split(line, ";")
	default:
		return strings.Fields(line)
	}

	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		fields = append(fields, strings.TrimSpace(f))
	}
	return fields
}

// looksLikeHeader reports whether a row is a column header, detected
// by a non-numeric second column
func looksLikeHeader(fields []string) bool {
	if len(fields) < 4 {
		return false
	}
	_, err := strconv.ParseFloat(fields[1], 64)
	return err != nil
}
