package lock

import (
	"context"
	"fmt"
	"slices"

	"github.com/BruksfildServices01/studio-scheduler/internal/domain/calendar"
)

// Key identifica o recurso disputado por uma operação de escrita.
type Key string

func InstrumentKey(instrumentID uint) Key {
	return Key(fmt.Sprintf("instrument:%d", instrumentID))
}

func RoomDayKey(room string, day calendar.Date) Key {
	return Key(fmt.Sprintf("room:%s:%s", room, day))
}

func MeetingKey(meetingID uint) Key {
	return Key(fmt.Sprintf("meeting:%d", meetingID))
}

// Manager executa fn com acesso exclusivo a todas as chaves.
// O lock é liberado em qualquer saída de fn, inclusive erro.
// Implementações transacionais desfazem as escritas de fn quando ela falha.
type Manager interface {
	WithLock(ctx context.Context, keys []Key, fn func(ctx context.Context) error) error
}

// Normalize ordena e remove duplicadas; adquirir sempre na mesma ordem evita deadlock.
func Normalize(keys []Key) []Key {
	out := slices.Clone(keys)
	slices.Sort(out)
	return slices.Compact(out)
}
