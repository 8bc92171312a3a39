package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rwaldren/shuntyard/internal/yard"
)

func TestSubmit_CreateTrain(t *testing.T) {
	e := newTestEngine(t)

	e.Submit(Command{
		Type: CmdCreateTrain,
		Data: CommandData{
			Number:     "T-700",
			Fitness:    intPtr(77),
			Mileage:    intPtr(200_000),
			Failures:   []string{"brakes"},
			DepartSoon: true,
		},
	})

	tr := e.TrainByNumber("T-700")
	require.NotNil(t, tr)
	assert.Equal(t, 77, tr.Fitness)
	assert.Equal(t, 200_000, tr.Mileage)
	assert.True(t, tr.DepartSoon)
	assert.Equal(t, []string{"brakes"}, tr.Failures)
}

func TestSubmit_AssignTrain(t *testing.T) {
	e := newTestEngine(t)
	id := e.CreateTrain(TrainAttrs{Number: "T-1"})

	e.Submit(Command{
		Type:    CmdAssignTrain,
		TrainID: id,
		Data:    CommandData{TargetID: "s6a", TargetType: yard.TargetSiding},
	})
	assert.Equal(t, yard.StatusParked, e.Train(id).Status)

	id2 := e.CreateTrain(TrainAttrs{Number: "T-2"})
	e.Submit(Command{
		Type:    CmdAssignTrain,
		TrainID: id2,
		Data:    CommandData{TargetID: "ws2", TargetType: yard.TargetWorkshop},
	})
	assert.Equal(t, yard.StatusWorkshop, e.Train(id2).Status)
}

func TestSubmit_AssignTrainUnknownTargetType(t *testing.T) {
	e := newTestEngine(t)
	id := e.CreateTrain(TrainAttrs{Number: "T-1"})

	before := len(e.Events())
	e.Submit(Command{
		Type:    CmdAssignTrain,
		TrainID: id,
		Data:    CommandData{TargetID: "s6a", TargetType: "depot"},
	})
	assert.Equal(t, before, len(e.Events()))
}

func TestSubmit_SpeedChange(t *testing.T) {
	e := newTestEngine(t)
	e.Submit(Command{Type: CmdSpeedChange, Data: CommandData{Speed: 3.0}})
	assert.Equal(t, 3.0, e.Speed())
}

func TestSubmit_AcceptedNoOps(t *testing.T) {
	e := newTestEngine(t)
	id := e.CreateTrain(TrainAttrs{Number: "T-1"})
	before := len(e.Events())

	for _, typ := range []CommandType{CmdRemoveTrain, CmdPreviewPlan, CmdExecutePlan, CmdPause, CmdResume} {
		e.Submit(Command{Type: typ, TrainID: id})
	}

	assert.Equal(t, before, len(e.Events()))
	assert.NotNil(t, e.Train(id), "remove_train command must not remove anything")
}

func TestSubmit_UnknownCommandIgnored(t *testing.T) {
	e := newTestEngine(t)
	before := len(e.Events())
	e.Submit(Command{Type: "self_destruct"})
	assert.Equal(t, before, len(e.Events()))
}
