package engine

import (
	"log/slog"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// CommandType is the fixed command vocabulary of the external surface.
type CommandType string

const (
	CmdCreateTrain CommandType = "create_train"
	CmdAssignTrain CommandType = "assign_train"
	CmdRemoveTrain CommandType = "remove_train"
	CmdPreviewPlan CommandType = "preview_plan"
	CmdExecutePlan CommandType = "execute_plan"
	CmdPause       CommandType = "pause"
	CmdResume      CommandType = "resume"
	CmdSpeedChange CommandType = "speed_change"
)

// Command is one externally issued instruction.
type Command struct {
	Type    CommandType `json:"type"`
	TrainID string      `json:"train_id,omitempty"`
	Data    CommandData `json:"data,omitempty"`
}

// CommandData is the union of per-command payload fields; each command
// type reads only the fields it needs.
type CommandData struct {
	Number     string      `json:"number,omitempty"`
	Fitness    *int        `json:"fitness,omitempty"`
	Mileage    *int        `json:"mileage,omitempty"`
	JobCard    []yard.Task `json:"job_card,omitempty"`
	Failures   []string    `json:"failures,omitempty"`
	Priority   bool        `json:"priority,omitempty"`
	DepartSoon bool        `json:"depart_soon,omitempty"`

	TargetID   string          `json:"target_id,omitempty"`
	TargetType yard.TargetType `json:"target_type,omitempty"`

	Speed float64 `json:"speed,omitempty"`
}

// Submit is the single entry point for externally issued commands.
//
// Unknown or malformed commands are ignored without surfacing an error:
// the yard is an interactive simulation tool and a bad command should
// degrade to "no state change", never to a crash. Of the accepted
// vocabulary only create_train, assign_train, and speed_change take
// effect; the rest are accepted and dropped.
func (e *Engine) Submit(cmd Command) {
	switch cmd.Type {
	case CmdCreateTrain:
		e.CreateTrain(TrainAttrs{
			Number:     cmd.Data.Number,
			Fitness:    cmd.Data.Fitness,
			Mileage:    cmd.Data.Mileage,
			JobCard:    cmd.Data.JobCard,
			Failures:   cmd.Data.Failures,
			Priority:   cmd.Data.Priority,
			DepartSoon: cmd.Data.DepartSoon,
		})

	case CmdAssignTrain:
		switch cmd.Data.TargetType {
		case yard.TargetWorkshop:
			e.AssignToWorkshop(cmd.TrainID, cmd.Data.TargetID)
		case yard.TargetSiding:
			e.AssignToSiding(cmd.TrainID, cmd.Data.TargetID)
		default:
			slog.Debug("assign_train with unknown target type ignored",
				"target_type", string(cmd.Data.TargetType))
		}

	case CmdSpeedChange:
		e.SetSpeed(cmd.Data.Speed)

	case CmdRemoveTrain, CmdPreviewPlan, CmdExecutePlan, CmdPause, CmdResume:
		// Accepted by the vocabulary but not implemented by the core.
		slog.Debug("command accepted but not implemented", "type", string(cmd.Type))

	default:
		slog.Debug("unknown command ignored", "type", string(cmd.Type))
	}
}
