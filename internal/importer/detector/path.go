package detector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// SVG path outlines
// ============================================================

type vertex struct {
	x, y float64
}

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// tracePath walks the straight-line subset of SVG path data (M, L, H, V, Z and their relative
// forms) and returns the visited vertices. Repeated coordinate pairs after M/L continue the
// polyline, as in the SVG grammar.
func tracePath(d string) ([]vertex, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var pts []vertex
	var cur, first vertex

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		args := parseNumbers(match[2])

		switch cmd {
		case "M", "m", "L", "l":
			rel := cmd == "m" || cmd == "l"
			for i := 0; i+1 < len(args); i += 2 {
				if rel {
					cur = vertex{cur.x + args[i], cur.y + args[i+1]}
				} else {
					cur = vertex{args[i], args[i+1]}
				}
				if i == 0 && (cmd == "M" || cmd == "m") {
					first = cur
				}
				pts = append(pts, cur)
			}
		case "H", "h":
			for _, v := range args {
				if cmd == "h" {
					cur.x += v
				} else {
					cur.x = v
				}
				pts = append(pts, cur)
			}
		case "V", "v":
			for _, v := range args {
				if cmd == "v" {
					cur.y += v
				} else {
					cur.y = v
				}
				pts = append(pts, cur)
			}
		case "Z", "z":
			if len(pts) > 0 {
				cur = first
				pts = append(pts, first)
			}
		}
	}

	if len(pts) == 0 {
		return nil, fmt.Errorf("path %q has no drawable commands", d)
	}
	return pts, nil
}

func parseNumbers(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}
