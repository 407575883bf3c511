// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/schematree

package schematree

import (
	"fmt"
	"strings"
)

// StyleLevelCount is the number of distinct presentation levels (0 through 6).
const StyleLevelCount = 7

// DepthPolicy selects style lookup for depths beyond the last styled level.
type DepthPolicy string

const (
	// DepthPolicyClamp reuses the last level for every deeper node.
	DepthPolicyClamp DepthPolicy = "clamp"
	// DepthPolicyCycle wraps depth around the level count.
	DepthPolicyCycle DepthPolicy = "cycle"
	// DepthPolicyStrict rejects depths beyond the last level with ErrUnsupportedDepth.
	DepthPolicyStrict DepthPolicy = "strict"
)

// StyleLevel is the presentation metadata of one nesting level.
type StyleLevel struct {
	Level      int
	FontSize   string
	Background string
	Divider    string
}

// styleLevels lists the levels from outermost to innermost; backgrounds darken with depth.
var styleLevels = [StyleLevelCount]StyleLevel{
	{Level: 0, FontSize: "text-[17px]", Background: "bg-slate-100 dark:bg-slate-800", Divider: "divide-slate-200 dark:divide-slate-700"},
	{Level: 1, FontSize: "text-[16px]", Background: "bg-slate-200 dark:bg-slate-700", Divider: "divide-slate-300 dark:divide-slate-600"},
	{Level: 2, FontSize: "text-[15px]", Background: "bg-slate-300 dark:bg-slate-600", Divider: "divide-slate-400 dark:divide-slate-500"},
	{Level: 3, FontSize: "text-[14px]", Background: "bg-slate-400 dark:bg-slate-500", Divider: "divide-slate-500 dark:divide-slate-400"},
	{Level: 4, FontSize: "text-[13px]", Background: "bg-slate-500 dark:bg-slate-400", Divider: "divide-slate-600 dark:divide-slate-300"},
	{Level: 5, FontSize: "text-[12px]", Background: "bg-slate-600 dark:bg-slate-300", Divider: "divide-slate-700 dark:divide-slate-200"},
	{Level: 6, FontSize: "text-[11px]", Background: "bg-slate-700 dark:bg-slate-200", Divider: "divide-slate-800 dark:divide-slate-100"},
}

// DepthPolicies returns all supported depth policies, default first.
func DepthPolicies() []DepthPolicy {
	return []DepthPolicy{DepthPolicyClamp, DepthPolicyCycle, DepthPolicyStrict}
}

// StyleLevels returns a copy of the level table.
func StyleLevels() []StyleLevel {
	out := make([]StyleLevel, StyleLevelCount)
	copy(out, styleLevels[:])
	return out
}

// StyleFor resolves presentation level for a node depth under policy.
//
// Empty policy means DepthPolicyClamp. Negative depth is always an error.
func StyleFor(depth int, policy DepthPolicy) (StyleLevel, error) {
	policy, err := normalizeDepthPolicy(policy)
	if err != nil {
		return StyleLevel{}, err
	}

	if depth < 0 {
		return StyleLevel{}, fmt.Errorf("%w: negative depth %d", ErrUnsupportedDepth, depth)
	}

	if depth < StyleLevelCount {
		return styleLevels[depth], nil
	}

	switch policy {
	case DepthPolicyCycle:
		return styleLevels[depth%StyleLevelCount], nil
	case DepthPolicyStrict:
		return StyleLevel{}, fmt.Errorf("%w: depth %d exceeds last style level %d", ErrUnsupportedDepth, depth, StyleLevelCount-1)
	default:
		return styleLevels[StyleLevelCount-1], nil
	}
}

// normalizeDepthPolicy validates and normalizes caller policy value.
func normalizeDepthPolicy(policy DepthPolicy) (DepthPolicy, error) {
	normalized := DepthPolicy(strings.ToLower(strings.TrimSpace(string(policy))))
	switch normalized {
	case "":
		return DepthPolicyClamp, nil
	case DepthPolicyClamp, DepthPolicyCycle, DepthPolicyStrict:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownDepthPolicy, policy)
	}
}
