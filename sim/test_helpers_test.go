package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func float64Ptr(v float64) *float64 { return &v }

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "usecases.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

var testStart = time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

// typeRecorder is a use case type registered only in tests.
const typeRecorder = "test-recorder"

type recorderParams struct {
	SendOnCheck bool `yaml:"send_on_check"`
	Fail        bool `yaml:"fail"`
}

// recorder logs every callback with the memory size it observed.
type recorder struct {
	name   string
	params recorderParams
	env    Environment
	events []string
}

func newRecorder(name string, node *yaml.Node) (UseCase, error) {
	var params recorderParams
	if err := DecodeParams(node, &params); err != nil {
		return nil, err
	}
	return &recorder{name: name, params: params}, nil
}

func init() {
	RegisterUseCase(typeRecorder, newRecorder)
}

func (r *recorder) Name() string { return r.name }

func (r *recorder) Initialize(env Environment) error {
	if r.params.Fail {
		return fmt.Errorf("initialize refused")
	}
	r.env = env
	return nil
}

func (r *recorder) Check() {
	r.events = append(r.events, fmt.Sprintf("check mem=%d", r.env.Memory().Len()))
	if r.params.SendOnCheck {
		id := r.env.Identity()
		msg := BuildSkeleton(id.StationID, id.StationType, r.env, r.env.Timer().TimestampIts(r.env.Now()))
		msg.Situation = &Situation{EventType: EventType{CauseCode: CauseRoadworks, SubCauseCode: RoadworksShortTermStationaryRoadwork}}
		msg.Management.ValidityDuration = Ptr(uint32(1))
		r.env.SendDenm(msg, ComputeDestination(r.env.Position(), 1000, 1, 0, PacketSize{}, r.env.RNG(r.name)))
	}
}

func (r *recorder) Indicate(obj *DenmObject) {
	r.events = append(r.events, fmt.Sprintf("indicate %d/%d", obj.Message().Management.ActionID.OriginatingStationID,
		obj.Message().Management.ActionID.SequenceNumber))
}

func (r *recorder) HandleStoryboardTrigger(signal StoryboardSignal) {
	r.events = append(r.events, "signal "+signal.Cause)
}
