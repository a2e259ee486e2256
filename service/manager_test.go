package service

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeService struct {
	name     string
	deps     []string
	initErr  error
	startErr error
	trace    *[]string
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Init(logrus.FieldLogger) error {
	*f.trace = append(*f.trace, "init "+f.name)
	return f.initErr
}

func (f *fakeService) Start() error {
	*f.trace = append(*f.trace, "start "+f.name)
	return f.startErr
}

func (f *fakeService) Stop() error {
	*f.trace = append(*f.trace, "stop "+f.name)
	return nil
}

func quietManager() *Manager {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewManager(l)
}

func TestManagerDependencyOrder(t *testing.T) {
	var trace []string
	m := quietManager()
	for _, svc := range []*fakeService{
		{name: "viewer", deps: []string{"hub"}, trace: &trace},
		{name: "hub", trace: &trace},
	} {
		if err := m.Register(svc); err != nil {
			t.Fatal(err)
		}
	}

	if err := m.InitAll(); err != nil {
		t.Fatal(err)
	}
	if err := m.StartAll(); err != nil {
		t.Fatal(err)
	}
	m.StopAll()

	want := []string{
		"init hub", "init viewer",
		"start hub", "start viewer",
		"stop viewer", "stop hub",
	}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("trace = %v, want %v", trace, want)
	}
}

func TestManagerRejectsDuplicatesAndCycles(t *testing.T) {
	var trace []string
	m := quietManager()
	_ = m.Register(&fakeService{name: "a", deps: []string{"b"}, trace: &trace})
	if err := m.Register(&fakeService{name: "a", trace: &trace}); err == nil {
		t.Error("duplicate registration accepted")
	}
	_ = m.Register(&fakeService{name: "b", deps: []string{"a"}, trace: &trace})
	if err := m.InitAll(); err == nil {
		t.Error("cycle accepted")
	}

	m2 := quietManager()
	_ = m2.Register(&fakeService{name: "a", deps: []string{"missing"}, trace: &trace})
	if err := m2.InitAll(); err == nil {
		t.Error("missing dependency accepted")
	}
}

func TestManagerStartRollback(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	m := quietManager()
	_ = m.Register(&fakeService{name: "a", trace: &trace})
	_ = m.Register(&fakeService{name: "b", deps: []string{"a"}, startErr: boom, trace: &trace})

	if err := m.InitAll(); err != nil {
		t.Fatal(err)
	}
	if err := m.StartAll(); !errors.Is(err, boom) {
		t.Fatalf("StartAll = %v", err)
	}
	if trace[len(trace)-1] != "stop a" {
		t.Errorf("rollback trace = %v", trace)
	}
}

func TestLookup(t *testing.T) {
	var trace []string
	m := quietManager()
	_ = m.Register(&fakeService{name: "a", trace: &trace})

	if _, err := Lookup[*fakeService](m, "a"); err != nil {
		t.Error(err)
	}
	if _, err := Lookup[*fakeService](m, "zzz"); err == nil {
		t.Error("missing service found")
	}
	if _, err := Lookup[io.Reader](m, "a"); err == nil {
		t.Error("type mismatch accepted")
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Names = %v", got)
	}
}
