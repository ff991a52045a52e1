package control

import (
	"github.com/pkg/errors"

	"github.com/plarailers/ptc-core/internal/topology"
)

// stoppageTime is how many ticks a train dwells at a stop before the tracker
// is allowed to advance it to the next one.
const stoppageTime = 50

// updateStopTrackers runs the per-train stop-target finite state machine for
// one tick, for every train in state. A stop that vanishes from the forward
// search means the train has physically halted on it and overshot; the
// tracker then holds the train (stop_distance 0) until the dwell timer
// expires before advancing to the next target.
func (s *Supervisor) updateStopTrackers() error {
	for id, train := range s.State.Trains {
		forwardStop, forwardDistance, found, err := topology.ForwardStop(
			s.Config, s.State,
			topology.Position{Section: train.CurrentSection, TargetJunction: train.TargetJunction, Mileage: train.Mileage},
			s.Config.Stops, s.maxHops(),
		)
		if err != nil {
			return errors.Wrapf(err, "stop tracker: train %q", id)
		}
		if !found {
			forwardStop = ""
			forwardDistance = 0
		}

		switch {
		case train.Stop == "":
			train.Stop = forwardStop
			train.StopDistance = forwardDistance
			if forwardStop != "" {
				s.logger.Debug("stop target acquired", "train", id, "stop", forwardStop)
			}

		case train.Stop != forwardStop:
			if train.DepartureTime == nil {
				t := s.State.Time + stoppageTime
				train.DepartureTime = &t
				train.StopDistance = 0
				s.logger.Debug("stop dwell started", "train", id, "stop", train.Stop, "departure_time", t)
			} else if s.State.Time >= *train.DepartureTime {
				train.DepartureTime = nil
				train.Stop = forwardStop
				train.StopDistance = forwardDistance
				s.logger.Debug("stop target advanced", "train", id, "stop", forwardStop)
			}
			// else: still dwelling, departure time not yet reached -- wait.

		default:
			// Same stop as last tick: just refresh the distance to it.
			train.StopDistance = forwardDistance
		}
	}
	return nil
}
