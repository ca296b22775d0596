package codegen

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the rendering of Dump
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name; the empty name means text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown dump format %q (want text, json or yaml)", name)
}

// Dump writes units to w in the given format
func Dump(w io.Writer, units []*Unit, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(units)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(units); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatText, "":
		_, err := io.WriteString(w, Text(units))
		return err
	}
	return fmt.Errorf("unknown dump format %q", format)
}

// Text renders units as a listing
//
//	Use.java
//	  Use.f
//	       0: load d
//	       1: invokevirtual Day.ordinal()
//	    switch line 3 tableswitch keys [1 2]
//	      case MONDAY -> line 4 target 3
func Text(units []*Unit) string {
	var sb strings.Builder
	for i, u := range units {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(u.File + "\n")
		for _, m := range u.Methods {
			fmt.Fprintf(&sb, "  %s.%s\n", m.Owner, m.Name)
			for _, in := range m.Code {
				sb.WriteString("  " + in.String() + "\n")
			}
			if len(m.Lines) > 0 {
				sb.WriteString("    lines:")
				for _, l := range m.Lines {
					fmt.Fprintf(&sb, " %d:%d", l.PC, l.Line)
				}
				sb.WriteString("\n")
			}
			for _, sw := range m.Switches {
				writeSwitch(&sb, sw)
			}
		}
	}
	return sb.String()
}

func writeSwitch(sb *strings.Builder, sw *SwitchInfo) {
	kind := "switch"
	if sw.Expression {
		kind = "switch expression"
	}
	if !sw.Reachable {
		fmt.Fprintf(sb, "    %s line %d unreachable\n", kind, sw.Line)
	} else {
		fmt.Fprintf(sb, "    %s line %d %s keys %v\n", kind, sw.Line, sw.Dispatch, sw.Keys)
	}
	for _, c := range sw.Cases {
		target := "not placed"
		if c.Target >= 0 {
			target = fmt.Sprintf("target %d", c.Target)
		}
		fmt.Fprintf(sb, "      %s line %d %s\n", c.Label, c.Line, target)
	}
}
