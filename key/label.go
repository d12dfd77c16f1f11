// Copyright © 2025 Keytile contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: key/label.go
// Summary: Modifier mask to label resolution.

package key

// legacyRule is one step of the legacy label fallback: when the held
// modifiers satisfy the predicate and the slot has a label, that label
// wins.
type legacyRule struct {
	need  ModMask // all of these must be held
	avoid ModMask // none of these may be held
	slot  ModMask
}

// legacyRules is tried strictly in order after the exact and masked
// lookups miss. The single-bit slots 1, 2, 128 and 129 are kept for
// layouts written before labels carried full modifier masks.
var legacyRules = []legacyRule{
	{need: ModShift | ModAltGr, slot: 129},
	{need: ModShift, slot: 1},
	{need: ModShift, slot: 2},
	{need: ModAltGr, avoid: ModShift, slot: 128},
	{need: ModCaps, avoid: ModShift, slot: 2},
	{need: ModCaps, avoid: ModShift, slot: 1},
}

// ResolveLabel returns the label to display while the given modifiers
// are held: the exact mask if mapped, else the mask reduced to the
// label-relevant modifiers, else the first matching legacy slot, else
// slot 0, else the empty string. It never fails; labels may be nil.
func ResolveLabel(labels map[ModMask]string, mask ModMask) string {
	if label, ok := labels[mask]; ok {
		return label
	}
	if label, ok := labels[mask&LabelModifiers]; ok {
		return label
	}
	for _, rule := range legacyRules {
		if !mask.Has(rule.need) || mask&rule.avoid != 0 {
			continue
		}
		if label, ok := labels[rule.slot]; ok {
			return label
		}
	}
	return labels[0]
}

// ConfigureLabel resolves the key's label for the held modifiers and
// stores it as the current label.
func (k *Key) ConfigureLabel(mask ModMask) {
	k.Label = ResolveLabel(k.Labels, mask)
}
