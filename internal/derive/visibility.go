package derive

// Display values understood by the renderer.
const (
	DisplayBlock = "block"
	DisplayNone  = "none"
)

// Style is the style fragment a deriver produces for a container.
type Style struct {
	Display string `json:"display"`
}

// Visible reports whether the style shows the container.
func (s Style) Visible() bool {
	return s.Display == DisplayBlock
}

func styleFor(visible bool) Style {
	if visible {
		return Style{Display: DisplayBlock}
	}
	return Style{Display: DisplayNone}
}

// SelectionVisibility shows the indicator settings only when at least one
// indicator is selected.
func SelectionVisibility(selected []string) Style {
	return styleFor(len(selected) > 0)
}

// ReadinessVisibility shows the strategy section once data is ready and the
// section has content to show.
func ReadinessVisibility(ready bool, children int) Style {
	return styleFor(ready && children > 0)
}

// RemoveStrategyVisibility shows the remove-strategy button while more than
// one strategy is listed.
func RemoveStrategyVisibility(strategies int) Style {
	return styleFor(strategies > 1)
}
