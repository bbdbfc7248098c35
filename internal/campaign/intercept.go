package campaign

import (
	"fmt"
	"time"

	"campaign-sim/internal/geo"
	"campaign-sim/internal/telemetry"
	"campaign-sim/internal/ufo"
)

const (
	// ufoEpsilon is how close the mission must sit to an installation to hit it.
	ufoEpsilon = 0.00001
	// targetInstallationProbability keeps installation attacks rare.
	targetInstallationProbability = 0.25

	minAttackDelay  = time.Hour
	maxAttackDelay  = 6 * time.Hour
	minHuntDelay    = 3 * 24 * time.Hour
	maxHuntDelay    = 6 * 24 * time.Hour
	rearmCheckDelay = time.Hour
)

type stageHandler func(c *Campaign, m *Mission)

func interceptHandlers() map[Stage]stageHandler {
	return map[Stage]stageHandler{
		StageNotActive:     (*Campaign).begin,
		StageComeFromOrbit: (*Campaign).setIntercept,
		StageMissionGoto:   (*Campaign).attackInstallation,
		StageIntercept:     (*Campaign).checkIntercept,
		StageReturnToOrbit: (*Campaign).MissionSucceeded,
	}
}

func mustHaveUFO(m *Mission) {
	if m.UFO == nil {
		panic(fmt.Sprintf("mission %s in stage %s has no UFO", m.ID, m.Stage))
	}
}

// begin brings the UFO of a fresh mission down from orbit.
func (c *Campaign) begin(m *Mission) {
	var candidates []*ufo.Type
	for _, t := range c.ufoTypes {
		if t.CanDoMission(MissionIntercept) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		c.log.Warn("no ufo type can fly intercept missions, removing mission", "mission_id", m.ID)
		c.Remove(m)
		return
	}
	m.UFO = c.UFOs.Spawn(candidates[c.rand.Intn(len(candidates))])
	m.Stage = StageComeFromOrbit
	m.FinalDate = c.now.Add(RandomDelay(c.randFloat, c.descentMin, c.descentMax))
}

// setIntercept chooses between attacking aircraft and attacking an
// installation. Only UFOs able to bomb go after installations.
func (c *Campaign) setIntercept(m *Mission) {
	mustHaveUFO(m)
	if m.UFO.Type.CanDoMission(ufo.MissionInterceptBombing) && c.HasInstallations() {
		if c.randFloat() < targetInstallationProbability {
			c.GoToInstallation(m)
		}
	}
	if m.Stage != StageMissionGoto {
		c.SetAircraftIntercept(m)
	}
}

// SetAircraftIntercept lets the UFO hunt aircraft for a few days.
func (c *Campaign) SetAircraftIntercept(m *Mission) {
	m.Stage = StageIntercept
	m.FinalDate = c.now.Add(RandomDelay(c.randFloat, minHuntDelay, maxHuntDelay))
}

// GoToInstallation picks an installation weighted by alien interest and
// sends the UFO to it. The mission is removed if nothing can be picked.
func (c *Campaign) GoToInstallation(m *Mission) {
	mustHaveUFO(m)
	m.Stage = StageMissionGoto

	inst, err := ChooseWeighted(c.randFloat, c.installationWeights())
	if err != nil {
		c.log.Warn("no installation found, removing mission", "mission_id", m.ID, "err", err)
		c.Remove(m)
		return
	}
	m.Target.Installation = inst
	m.Pos = inst.Pos
	m.PosAssigned = true
	m.OnGeoscape = true

	c.disableTimeLimit(m)
	c.UFOs.SendTo(m.UFO, m.Pos)
	c.emit(m, telemetry.EventInstallationTargeted, inst.Name)
}

// attackInstallation starts the attack once the UFO reached its target.
func (c *Campaign) attackInstallation(m *Mission) {
	mustHaveUFO(m)
	m.Stage = StageIntercept

	inst := m.Target.Installation
	if inst == nil || !geo.CompareEps(m.Pos, inst.Pos, ufoEpsilon) {
		m.FinalDate = c.now
		return
	}
	c.UFOs.SetRandomDestAround(m.UFO, m.Pos)
	m.FinalDate = c.now.Add(RandomDelay(c.randFloat, minAttackDelay, maxAttackDelay))
}

// checkIntercept keeps a UFO hunting aircraft while it can still shoot,
// re-checking every hour. Otherwise it leaves.
func (c *Campaign) checkIntercept(m *Mission) {
	mustHaveUFO(m)
	u := m.UFO
	if u.CanShoot() && u.Status == ufo.StatusFlying && m.Target.Installation == nil {
		m.FinalDate = c.now.Add(rearmCheckDelay)
		return
	}
	c.Leave(m, true)
}

// Leave sends the UFO back to orbit. If destroyed is set and the mission sits
// on its target installation, the installation is destroyed.
func (c *Campaign) Leave(m *Mission, destroyed bool) {
	mustHaveUFO(m)
	m.Stage = StageReturnToOrbit

	if inst := m.Target.Installation; inst != nil {
		if destroyed && geo.CompareEps(m.Pos, inst.Pos, ufoEpsilon) {
			c.emit(m, telemetry.EventInstallationDestroyed, "")
			c.DestroyInstallation(inst)
		}
	}

	c.disableTimeLimit(m)
	c.UFOs.SetRandomDest(m.UFO)
	c.removeFromGeoscape(m)
	m.UFO.Landed = false
}

// MissionSucceeded applies the success interest changes and removes the mission.
func (c *Campaign) MissionSucceeded(m *Mission) {
	c.applyInterest(InterceptSuccessDeltas(c.XVIStarted))
	c.emit(m, telemetry.EventMissionSucceeded, "")
	c.Remove(m)
}

// MissionFailed applies the failure interest changes and removes the mission.
func (c *Campaign) MissionFailed(m *Mission) {
	c.applyInterest(InterceptFailureDeltas())
	c.emit(m, telemetry.EventMissionFailed, "")
	c.Remove(m)
}

func (c *Campaign) disableTimeLimit(m *Mission) {
	m.FinalDate = time.Time{}
}

func (c *Campaign) removeFromGeoscape(m *Mission) {
	m.OnGeoscape = false
}
