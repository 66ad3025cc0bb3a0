// Package host provides a Host implementation backed by fixed values, typically
// read from a package manifest. It is what the CLI and the tests hand to the
// engine.
package host

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/moefra/zako/pkg/bridge"
	"github.com/moefra/zako/pkg/kind"
)

// Record is one message logged through the bridge.
type Record struct {
	Level   bridge.Level
	Message string
}

// Static answers every host query from its fields. Messages are forwarded to
// Logger (if set) and kept in memory for Records.
type Static struct {
	Version  string
	Context  kind.Kind
	Manifest Manifest
	Logger   *zerolog.Logger

	lock    sync.Mutex
	records []Record
}

var _ bridge.PackageHost = (*Static)(nil)

var zerologLevels = map[bridge.Level]zerolog.Level{
	bridge.Trace: zerolog.TraceLevel,
	bridge.Debug: zerolog.DebugLevel,
	bridge.Info:  zerolog.InfoLevel,
	bridge.Warn:  zerolog.WarnLevel,
	bridge.Error: zerolog.ErrorLevel,
}

func (s *Static) SyscallVersion() int {
	return bridge.ContractVersion
}

func (s *Static) CoreVersion() string {
	return s.Version
}

func (s *Static) CoreLog(level bridge.Level, message string) {
	s.lock.Lock()
	s.records = append(s.records, Record{Level: level, Message: message})
	s.lock.Unlock()

	if s.Logger != nil {
		s.Logger.WithLevel(zerologLevels[level]).Msg(message)
	}
}

func (s *Static) ContextName() string {
	return string(s.Context)
}

func (s *Static) PackageGroup() string {
	return s.Manifest.Group
}

func (s *Static) PackageArtifact() string {
	return s.Manifest.Artifact
}

func (s *Static) PackageVersion() string {
	return s.Manifest.Version
}

func (s *Static) PackageConfig(key string) (interface{}, bool) {
	value, ok := s.Manifest.Config[key]
	return value, ok
}

// Records returns a copy of everything logged so far.
func (s *Static) Records() []Record {
	s.lock.Lock()
	defer s.lock.Unlock()

	result := make([]Record, len(s.records))
	copy(result, s.records)
	return result
}
