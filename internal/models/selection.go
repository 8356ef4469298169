package models

// TargetSelection is the at-most-one SDR and at-most-one non-SDR pick for a snapshot.
//
// A nil slot means the group had no variants; it is never filled with a placeholder.
// When premium variants win a group, every premium variant of that group is
// requested: the first fills the slot and the rest are kept in the Extra slices.
type TargetSelection struct {
	SDR      *StreamVariant
	HDR      *StreamVariant
	ExtraSDR []StreamVariant
	ExtraHDR []StreamVariant
}

// Targets returns the selected variants in transfer order, SDR group first.
func (t TargetSelection) Targets() []StreamVariant {
	var out []StreamVariant
	if t.SDR != nil {
		out = append(out, *t.SDR)
		out = append(out, t.ExtraSDR...)
	}
	if t.HDR != nil {
		out = append(out, *t.HDR)
		out = append(out, t.ExtraHDR...)
	}
	return out
}

// Empty returns true if nothing was selected.
func (t TargetSelection) Empty() bool {
	return t.SDR == nil && t.HDR == nil
}
