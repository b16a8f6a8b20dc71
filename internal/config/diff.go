package config

import (
	"fmt"
	"strings"
)

// diffOp is a single line-level diff operation.
type diffOp struct {
	kind  byte // '=', '-', '+'
	text  string
	oldNo int
	newNo int
}

func diffLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// lineDiffOps computes a line-level LCS diff annotated with 1-based line
// numbers on both sides.
func lineDiffOps(oldLines, newLines []string) []diffOp {
	n := len(oldLines)
	m := len(newLines)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				dp[i][j] = dp[i+1][j+1] + 1
				continue
			}
			if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	i, j := 0, 0
	oldNo, newNo := 1, 1
	ops := make([]diffOp, 0, n+m)
	for i < n && j < m {
		if oldLines[i] == newLines[j] {
			ops = append(ops, diffOp{kind: '=', text: oldLines[i], oldNo: oldNo, newNo: newNo})
			i++
			j++
			oldNo++
			newNo++
			continue
		}
		if dp[i+1][j] >= dp[i][j+1] {
			ops = append(ops, diffOp{kind: '-', text: oldLines[i], oldNo: oldNo, newNo: newNo})
			i++
			oldNo++
		} else {
			ops = append(ops, diffOp{kind: '+', text: newLines[j], oldNo: oldNo, newNo: newNo})
			j++
			newNo++
		}
	}
	for i < n {
		ops = append(ops, diffOp{kind: '-', text: oldLines[i], oldNo: oldNo, newNo: newNo})
		i++
		oldNo++
	}
	for j < m {
		ops = append(ops, diffOp{kind: '+', text: newLines[j], oldNo: oldNo, newNo: newNo})
		j++
		newNo++
	}
	return ops
}

// unifiedDiff formats diff ops as a unified diff with the given number of
// context lines. Returns "" when there are no changes.
func unifiedDiff(ops []diffOp, contextLines int, oldName, newName string) string {
	hasChanges := false
	for _, op := range ops {
		if op.kind != '=' {
			hasChanges = true
			break
		}
	}
	if !hasChanges {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", oldName, newName)

	i := 0
	for i < len(ops) {
		change := -1
		for j := i; j < len(ops); j++ {
			if ops[j].kind != '=' {
				change = j
				break
			}
		}
		if change < 0 {
			break
		}

		start := change - contextLines
		if start < 0 {
			start = 0
		}
		end := change + contextLines + 1
		if end > len(ops) {
			end = len(ops)
		}

		// Merge hunks whose context windows touch.
		for {
			next := -1
			for j := end; j < len(ops); j++ {
				if ops[j].kind != '=' {
					next = j
					break
				}
			}
			if next < 0 || next > end+contextLines {
				break
			}
			end = next + contextLines + 1
			if end > len(ops) {
				end = len(ops)
			}
		}

		oldStart := ops[start].oldNo
		newStart := ops[start].newNo
		oldCount := 0
		newCount := 0
		for k := start; k < end; k++ {
			if ops[k].kind != '+' {
				oldCount++
			}
			if ops[k].kind != '-' {
				newCount++
			}
		}
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
		for k := start; k < end; k++ {
			prefix := byte(' ')
			switch ops[k].kind {
			case '-':
				prefix = '-'
			case '+':
				prefix = '+'
			}
			b.WriteByte(prefix)
			b.WriteString(ops[k].text)
			b.WriteByte('\n')
		}

		i = end
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// FormatDiff parses two config byte slices, renders both canonically, and
// returns a unified diff of the results. contextLines defaults to 3 if <= 0.
func FormatDiff(oldData, newData []byte, contextLines int, oldName, newName string) (string, error) {
	if contextLines <= 0 {
		contextLines = 3
	}

	oldSections, err := Parse(oldData)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", oldName, err)
	}
	newSections, err := Parse(newData)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", newName, err)
	}

	oldLines := diffLines(string(FormatSections(oldSections)))
	newLines := diffLines(string(FormatSections(newSections)))
	ops := lineDiffOps(oldLines, newLines)
	return unifiedDiff(ops, contextLines, oldName, newName), nil
}
