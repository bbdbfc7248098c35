package campaign

import "fmt"

// Stage is the step a mission is currently in.
type Stage int

const (
	StageNotActive Stage = iota
	StageComeFromOrbit
	StageMissionGoto
	StageIntercept
	StageReturnToOrbit
)

var stageNames = map[Stage]string{
	StageNotActive:     "not_active",
	StageComeFromOrbit: "come_from_orbit",
	StageMissionGoto:   "mission_goto",
	StageIntercept:     "intercept",
	StageReturnToOrbit: "return_to_orbit",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("stage(%d)", int(s))
}
