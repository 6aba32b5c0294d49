package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"atmos-server/internal/isa"
	"atmos-server/internal/modules/atmosphere/types"
)

type recordedSounding struct {
	requestedAt time.Time
	from, to    float64
	step        float64
	samples     int
}

type mockRepo struct {
	inserted  []recordedSounding
	insertErr error
	recent    []types.Sounding
	recentErr error
}

func (m *mockRepo) InsertSounding(requestedAt time.Time, from, to, step float64, samples int) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, recordedSounding{requestedAt, from, to, step, samples})
	return nil
}

func (m *mockRepo) GetRecentSoundings(limit int) ([]types.Sounding, error) {
	return m.recent, m.recentErr
}

type mockPublisher struct {
	connected  bool
	published  []any
	publishErr error
}

func (m *mockPublisher) Publish(v any) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, v)
	return nil
}

func (m *mockPublisher) IsConnected() bool { return m.connected }

func TestConditions_SeaLevel(t *testing.T) {
	svc := NewService(&mockRepo{}, nil, 2000, nil)

	got, err := svc.Conditions(0)
	if err != nil {
		t.Fatalf("Conditions(0) error = %v", err)
	}
	if math.Abs(got.TemperatureK-288.15) > 1e-6 {
		t.Errorf("TemperatureK = %v, want 288.15", got.TemperatureK)
	}
	if math.Abs(got.PressurePa-101325.00) > 1e-6 {
		t.Errorf("PressurePa = %v, want 101325.00", got.PressurePa)
	}
	if math.Abs(got.DensityKgM3-1.225) > 1e-6 {
		t.Errorf("DensityKgM3 = %v, want 1.225", got.DensityKgM3)
	}
}

func TestConditions_OutOfRange(t *testing.T) {
	svc := NewService(&mockRepo{}, nil, 2000, nil)

	_, err := svc.Conditions(71000)
	if !errors.Is(err, isa.ErrAltitudeOutOfRange) {
		t.Fatalf("Conditions(71000) error = %v, want ErrAltitudeOutOfRange", err)
	}
}

func TestProfile_RecordsSounding(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil, 2000, nil)

	profile, err := svc.Profile(0, 40000, 100)
	if err != nil {
		t.Fatalf("Profile error = %v", err)
	}
	if len(profile) != 401 {
		t.Fatalf("len(profile) = %d, want 401", len(profile))
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("inserted = %d soundings, want 1", len(repo.inserted))
	}
	rec := repo.inserted[0]
	if rec.from != 0 || rec.to != 40000 || rec.step != 100 {
		t.Errorf("recorded range = (%v, %v, %v), want (0, 40000, 100)", rec.from, rec.to, rec.step)
	}
	if rec.samples != 401 {
		t.Errorf("recorded samples = %d, want 401", rec.samples)
	}
}

func TestProfile_FailsWholeRequestOnOutOfRange(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil, 2000, nil)

	profile, err := svc.Profile(70000, 72000, 500)
	if !errors.Is(err, isa.ErrAltitudeOutOfRange) {
		t.Fatalf("error = %v, want ErrAltitudeOutOfRange", err)
	}
	if profile != nil {
		t.Errorf("profile = %v, want nil (no partial curve)", profile)
	}
	if len(repo.inserted) != 0 {
		t.Errorf("inserted = %d soundings, want 0", len(repo.inserted))
	}
}

func TestProfile_RejectsUnboundedRange(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil, 2000, nil)

	for _, to := range []float64{math.Inf(1), 1e300, 1e12} {
		profile, err := svc.Profile(0, to, 1)
		if !errors.Is(err, isa.ErrInvalidRange) {
			t.Fatalf("Profile(0, %v, 1) error = %v, want ErrInvalidRange", to, err)
		}
		if profile != nil {
			t.Errorf("Profile(0, %v, 1) = %d samples, want nil", to, len(profile))
		}
	}
	if len(repo.inserted) != 0 {
		t.Errorf("inserted = %d soundings, want 0", len(repo.inserted))
	}
}

func TestProfile_SampleCap(t *testing.T) {
	svc := NewService(&mockRepo{}, nil, 100, nil)

	_, err := svc.Profile(0, 40000, 100)
	if !errors.Is(err, ErrTooManySamples) {
		t.Fatalf("error = %v, want ErrTooManySamples", err)
	}
}

func TestProfile_InsertFailureDoesNotFailRequest(t *testing.T) {
	repo := &mockRepo{insertErr: errors.New("disk full")}
	svc := NewService(repo, nil, 2000, nil)

	profile, err := svc.Profile(0, 10000, 1000)
	if err != nil {
		t.Fatalf("Profile error = %v, want nil", err)
	}
	if len(profile) != 11 {
		t.Errorf("len(profile) = %d, want 11", len(profile))
	}
}

func TestProfile_PublishesWhenConnected(t *testing.T) {
	pub := &mockPublisher{connected: true}
	svc := NewService(&mockRepo{}, pub, 2000, nil)

	if _, err := svc.Profile(0, 20000, 1000); err != nil {
		t.Fatalf("Profile error = %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published = %d messages, want 1", len(pub.published))
	}
	sounding, ok := pub.published[0].(types.Sounding)
	if !ok {
		t.Fatalf("published %T, want types.Sounding", pub.published[0])
	}
	if sounding.Samples != 21 {
		t.Errorf("sounding.Samples = %d, want 21", sounding.Samples)
	}
}

func TestProfile_SkipsPublishWhenDisconnected(t *testing.T) {
	pub := &mockPublisher{connected: false}
	svc := NewService(&mockRepo{}, pub, 2000, nil)

	if _, err := svc.Profile(0, 20000, 1000); err != nil {
		t.Fatalf("Profile error = %v", err)
	}
	if len(pub.published) != 0 {
		t.Errorf("published = %d messages, want 0", len(pub.published))
	}
}

func TestLayers(t *testing.T) {
	svc := NewService(&mockRepo{}, nil, 2000, nil)

	layers := svc.Layers()
	if len(layers) != 6 {
		t.Fatalf("len(layers) = %d, want 6", len(layers))
	}
	if layers[0].Name != "troposphere" {
		t.Errorf("layers[0].Name = %q, want troposphere", layers[0].Name)
	}
	if layers[5].BaseAltitudeM != 51000 {
		t.Errorf("layers[5].BaseAltitudeM = %v, want 51000", layers[5].BaseAltitudeM)
	}
}
