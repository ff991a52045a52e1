package topology

// candidateSet maps an opaque candidate id (train or stop) to its mileage
// along a particular section.
type candidateSet map[string]float64

// sectionCandidates looks up every candidate located on a given section,
// approached with the given heading (targetJunction). Train candidates
// ignore the heading (a train occupies a section regardless of which way
// another train is travelling through it); stop candidates do not, since a
// stop is only visible to trains approaching with its own heading.
type sectionCandidates func(section SectionID, targetJunction JunctionID) candidateSet

// forwardWalk is the generic "nearest X ahead of train Y" search: one walking
// engine shared between ForwardTrain and ForwardStop, differing only in how
// candidates and loop-detection are supplied.
//
//   - start is the searching train's current (section, targetJunction,
//     mileage).
//   - startCandidates are the pre-filtered, same-section candidates (heading
//     and self-exclusion already applied by the caller).
//   - candidatesOn supplies candidates for every subsequent section visited.
//   - detectLoops, when true, returns "not found" the moment a
//     (section, targetJunction) pair is revisited (the stop search's
//     infinite-loop guard); when false, the walk instead relies solely on
//     maxHops to bound itself (the train search, which legitimately revisits
//     its own starting section when it is its own leader around an empty
//     loop).
func forwardWalk(
	cfg *Config,
	dirs JunctionDirections,
	start Position,
	startCandidates candidateSet,
	candidatesOn sectionCandidates,
	detectLoops bool,
	maxHops int,
) (string, float64, bool, error) {
	sec, ok := cfg.Sections[start.Section]
	if !ok {
		return "", 0, false, violation("section %q not defined", start.Section)
	}

	var best string
	bestDistance := 0.0
	found := false
	for id, mileage := range startCandidates {
		var match bool
		var d float64
		switch start.TargetJunction {
		case sec.Junction0:
			match = mileage <= start.Mileage
			d = start.Mileage - mileage
		case sec.Junction1:
			match = mileage >= start.Mileage
			d = mileage - start.Mileage
		default:
			return "", 0, false, violation("junction %q is not an endpoint of section %q", start.TargetJunction, start.Section)
		}
		if match && (!found || d < bestDistance) {
			best = id
			bestDistance = d
			found = true
		}
	}
	if found {
		return best, bestDistance, true, nil
	}

	distance, err := BoundaryDistance(sec, start.TargetJunction, start.Mileage)
	if err != nil {
		return "", 0, false, err
	}

	section := start.Section
	targetJunction := start.TargetJunction
	visited := make(map[[2]string]bool)

	for hop := 0; hop < maxHops; hop++ {
		nextSection, nextTargetJunction, ok, err := NextHopStrict(cfg, dirs, section, targetJunction)
		if err != nil {
			return "", 0, false, err
		}
		if !ok {
			return "", 0, false, nil
		}

		key := [2]string{nextSection, nextTargetJunction}
		if detectLoops {
			if visited[key] {
				return "", 0, false, nil
			}
			visited[key] = true
		}

		section = nextSection
		targetJunction = nextTargetJunction
		nextSectionConfig, ok := cfg.Sections[section]
		if !ok {
			return "", 0, false, violation("section %q not defined", section)
		}

		entryJunction, err := nextSectionConfig.Opposite(targetJunction)
		if err != nil {
			return "", 0, false, err
		}
		for id, mileage := range candidatesOn(section, targetJunction) {
			// This section was just entered at entryJunction, walking toward
			// targetJunction; a candidate's entryDistance is how far travel
			// has covered by the time it reaches the candidate's mileage --
			// the remaining distance from the candidate back to the entry
			// side, i.e. BoundaryDistance measured toward entryJunction.
			entryDistance, err := BoundaryDistance(nextSectionConfig, entryJunction, mileage)
			if err != nil {
				return "", 0, false, err
			}
			newDistance := distance + entryDistance
			if !found || newDistance < bestDistance {
				best = id
				bestDistance = newDistance
				found = true
			}
		}
		if found {
			return best, bestDistance, true, nil
		}

		distance += nextSectionConfig.Length
	}

	return "", 0, false, nil
}

// TrainPosition is the minimal view of a train's location a forward search
// needs: the section it occupies, its heading, and its mileage on it.
type TrainPosition struct {
	Section        SectionID
	TargetJunction JunctionID
	Mileage        float64
}

// ForwardTrain returns the nearest other train ahead of self and the
// along-track distance to its nose. If the search loops all
// the way back around to self's own section with no other train found along
// the way, self is returned as its own forward train at the distance around
// the loop (an empty loop's leader is itself). maxHops bounds the walk for
// malformed topologies; callers should pass at least len(cfg.Sections).
func ForwardTrain(cfg *Config, dirs JunctionDirections, self TrainID, trains map[TrainID]TrainPosition, maxHops int) (TrainID, float64, bool, error) {
	selfPos, ok := trains[self]
	if !ok {
		return "", 0, false, violation("train %q not tracked", self)
	}
	start := Position{Section: selfPos.Section, TargetJunction: selfPos.TargetJunction, Mileage: selfPos.Mileage}

	startCandidates := make(candidateSet)
	for id, pos := range trains {
		if id == self || pos.Section != selfPos.Section {
			continue
		}
		startCandidates[id] = pos.Mileage
	}

	candidatesOn := func(section SectionID, _ JunctionID) candidateSet {
		set := make(candidateSet)
		for id, pos := range trains {
			if pos.Section == section {
				set[id] = pos.Mileage
			}
		}
		return set
	}

	id, distance, found, err := forwardWalk(cfg, dirs, start, startCandidates, candidatesOn, false, maxHops)
	if err != nil || !found {
		return "", 0, found, err
	}
	return id, distance, true, nil
}

// ForwardStop returns the nearest stop ahead of the given position and the
// along-track distance to it, or found=false if none is reachable
// (misaligned switch, blocked section, or an empty loop with no stop on it
// -- all legitimate, non-error outcomes).
func ForwardStop(cfg *Config, dirs JunctionDirections, start Position, stops map[StopID]StopConfig, maxHops int) (StopID, float64, bool, error) {
	startCandidates := make(candidateSet)
	for id, stop := range stops {
		if stop.Section == start.Section && stop.TargetJunction == start.TargetJunction {
			startCandidates[id] = stop.Mileage
		}
	}

	candidatesOn := func(section SectionID, targetJunction JunctionID) candidateSet {
		set := make(candidateSet)
		for id, stop := range stops {
			if stop.Section == section && stop.TargetJunction == targetJunction {
				set[id] = stop.Mileage
			}
		}
		return set
	}

	id, distance, found, err := forwardWalk(cfg, dirs, start, startCandidates, candidatesOn, true, maxHops)
	if err != nil || !found {
		return "", 0, found, err
	}
	return id, distance, true, nil
}
