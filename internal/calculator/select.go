package calculator

import (
	"fmt"
	"strconv"
	"strings"
)

// selectFirstFit scans ascending sizes and stops at the first fully compliant
// one. A larger compliant size is never preferred.
func selectFirstFit(steps []candidate) (int, bool) {
	for i, s := range steps {
		if s.compliant() {
			return i, true
		}
	}
	return -1, false
}

// bindingConstraints names the checks the size just below the selection
// failed, in fixed order.
func bindingConstraints(below candidate) []string {
	var names []string
	if !below.ampacityOK {
		names = append(names, "ampacity")
	}
	if !below.vdropOK {
		names = append(names, "voltage-drop")
	}
	if !below.shortCircuitOK {
		names = append(names, "short-circuit")
	}
	return names
}

func joinConstraints(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

func formatSize(mm2 float64) string {
	return strconv.FormatFloat(mm2, 'f', -1, 64) + " mm²"
}

func finalMessage(steps []candidate, selected int, found, shortCircuit bool) string {
	if !found {
		checks := "ampacity and voltage-drop requirements"
		if shortCircuit {
			checks = "ampacity, voltage-drop and short-circuit requirements"
		}
		return fmt.Sprintf(
			"No standard conductor size up to %s satisfies %s. Consider parallel conductors or refer the circuit for engineering review.",
			formatSize(steps[len(steps)-1].sizeMM2), checks)
	}

	size := formatSize(steps[selected].sizeMM2)
	if selected == 0 {
		return fmt.Sprintf("Selected %s: the smallest standard size passes every check, no constraint is binding.", size)
	}
	below := steps[selected-1]
	return fmt.Sprintf("Selected %s: %s limited (%s fails).",
		size, joinConstraints(bindingConstraints(below)), formatSize(below.sizeMM2))
}
