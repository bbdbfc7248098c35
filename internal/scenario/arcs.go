package scenario

// BuiltIn returns predefined campaign arcs.
func BuiltIn() map[string]Scenario {
	return map[string]Scenario{
		"first-contact": {
			Name:        "First Contact",
			Description: "Scattered sightings grow into a sustained campaign of interceptions.",
			Phases: []Phase{
				{
					Name:              "setup",
					Description:       "Occasional scouts test the air defences.",
					MissionRatePerDay: 0.2,
					Triggers:          []Trigger{{Event: EventDaysElapsed, Value: 14, Next: "escalation"}},
				},
				{
					Name:              "escalation",
					Description:       "Fighters start hunting patrol craft.",
					MissionRatePerDay: 0.6,
					Triggers:          []Trigger{{Event: EventMissionsSucceeded, Value: 5, Next: "climax"}},
				},
				{
					Name:              "climax",
					Description:       "Daily interceptions stretch every hangar.",
					MissionRatePerDay: 1.5,
					Triggers:          []Trigger{{Event: EventMissionsFailed, Value: 10, Next: "resolution"}},
				},
				{
					Name:              "resolution",
					Description:       "Losses force the aliens to thin out their patrols.",
					MissionRatePerDay: 0.4,
				},
			},
		},
		"installation-siege": {
			Name:        "Installation Siege",
			Description: "Bombers go after the installation network until it breaks or holds.",
			Phases: []Phase{
				{
					Name:              "setup",
					Description:       "Recon flights map the installations.",
					MissionRatePerDay: 0.3,
					Triggers:          []Trigger{{Event: EventDaysElapsed, Value: 7, Next: "escalation"}},
				},
				{
					Name:              "escalation",
					Description:       "Bombing runs begin.",
					MissionRatePerDay: 1.0,
					Triggers:          []Trigger{{Event: EventInstallationsDestroyed, Value: 1, Next: "climax"}},
				},
				{
					Name:              "climax",
					Description:       "Several bombers are airborne at once.",
					MissionRatePerDay: 2.0,
					Triggers: []Trigger{
						{Event: EventInstallationsDestroyed, Value: 3, Next: "resolution"},
						{Event: EventMissionsFailed, Value: 8, Next: "resolution"},
					},
				},
				{
					Name:              "resolution",
					Description:       "The siege winds down.",
					MissionRatePerDay: 0.3,
				},
			},
		},
		"xvi-outbreak": {
			Name:        "XVI Outbreak",
			Description: "The aliens spread XVI while their craft keep the skies contested.",
			Phases: []Phase{
				{
					Name:              "setup",
					Description:       "Quiet skies before the outbreak.",
					MissionRatePerDay: 0.3,
					Triggers:          []Trigger{{Event: EventDaysElapsed, Value: 10, Next: "escalation"}},
				},
				{
					Name:              "escalation",
					Description:       "XVI is detected and every successful mission spreads it further.",
					MissionRatePerDay: 0.8,
					XVI:               true,
					Triggers:          []Trigger{{Event: EventMissionsSucceeded, Value: 6, Next: "climax"}},
				},
				{
					Name:              "climax",
					Description:       "The infection peaks.",
					MissionRatePerDay: 1.2,
					XVI:               true,
					Triggers:          []Trigger{{Event: EventDaysElapsed, Value: 30, Next: "resolution"}},
				},
				{
					Name:              "resolution",
					Description:       "The outbreak stabilises.",
					MissionRatePerDay: 0.5,
					XVI:               true,
				},
			},
		},
	}
}
