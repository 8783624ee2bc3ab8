package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"journey/internal/config"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultKey имя слота, под которым хранится всё состояние
const DefaultKey = "1796-days-data"

// Repository читает и пишет AppState целиком в один слот
type Repository struct {
	slot Slot
	key  string

	mu       sync.Mutex
	readOnly bool
}

// NewRepository создаёт репозиторий. С nil слотом Save ничего не делает
func NewRepository(slot Slot, key string) *Repository {
	if key == "" {
		key = DefaultKey
	}
	return &Repository{slot: slot, key: key}
}

func (r *Repository) Key() string {
	return r.key
}

// ReadOnly сообщает, что в слоте данные более новой версии и запись запрещена
func (r *Repository) ReadOnly() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readOnly
}

// Load никогда не возвращает ошибку: при отсутствии или порче данных подставляется пустое состояние
func (r *Repository) Load() AppState {
	if r.slot == nil {
		return DefaultState()
	}

	data, ok, err := r.slot.Get(r.key)
	if err != nil {
		config.Logger.Errorw("⚠️ Ошибка чтения состояния", "key", r.key, "error", err)
		return DefaultState()
	}
	if !ok {
		return DefaultState()
	}

	state, from, err := Decode(data)
	if err != nil {
		config.Logger.Errorw("⚠️ Ошибка разбора состояния", "key", r.key, "error", err)
		return DefaultState()
	}

	r.mu.Lock()
	r.readOnly = from > SchemaVersion
	r.mu.Unlock()

	if from > SchemaVersion {
		config.Logger.Warnw("⚠️ Состояние записано более новой версией, запись отключена",
			"key", r.key, "version", from, "supported", SchemaVersion)
	} else if from < SchemaVersion {
		config.Logger.Infow("🔄 Состояние мигрировано", "key", r.key, "from", from, "to", SchemaVersion)
	}
	return state
}

// Save сериализует состояние и перезаписывает слот
func (r *Repository) Save(state AppState) error {
	if r.slot == nil {
		return nil
	}
	if r.ReadOnly() {
		return ErrNewerSchema
	}

	data, err := Encode(state)
	if err != nil {
		return err
	}
	if err := r.slot.Set(r.key, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Raw возвращает сохранённый JSON как дерево map/slice для запросов
func (r *Repository) Raw() (any, error) {
	var data []byte
	if r.slot != nil {
		v, ok, err := r.slot.Get(r.key)
		if err != nil {
			return nil, err
		}
		if ok {
			data = v
		}
	}
	if data == nil {
		var err error
		if data, err = Encode(DefaultState()); err != nil {
			return nil, err
		}
	}

	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("parse stored state: %w", err)
	}
	return obj, nil
}

// ErrBadQuery JSONPath выражение не разобрано или не вычислено
var ErrBadQuery = errors.New("bad query")

// Query выполняет JSONPath выражение над сохранённым состоянием.
// Ошибки выражения оборачивают ErrBadQuery, ошибки чтения слота возвращаются как есть
func (r *Repository) Query(path string) (any, error) {
	obj, err := r.Raw()
	if err != nil {
		return nil, err
	}
	v, err := jsonpath.Get(path, obj)
	if err != nil {
		return nil, fmt.Errorf("query %q: %v: %w", path, err, ErrBadQuery)
	}
	return v, nil
}

// Encode сериализует состояние текущей версии схемы
func Encode(state AppState) ([]byte, error) {
	state.Version = SchemaVersion
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return data, nil
}

// Decode разбирает сохранённый JSON, прогоняет миграции и возвращает исходную версию
func Decode(data []byte) (AppState, int, error) {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return AppState{}, 0, fmt.Errorf("parse state: %w", err)
	}
	if obj == nil {
		return AppState{}, 0, fmt.Errorf("parse state: not an object")
	}

	from, err := migrate(obj)
	if err != nil {
		return AppState{}, from, err
	}

	migrated, err := json.Marshal(obj)
	if err != nil {
		return AppState{}, from, fmt.Errorf("re-encode state: %w", err)
	}

	var state AppState
	if err := json.Unmarshal(migrated, &state); err != nil {
		return AppState{}, from, fmt.Errorf("decode state: %w", err)
	}
	return normalize(state), from, nil
}

// normalize заменяет nil списки пустыми
func normalize(s AppState) AppState {
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	if s.Entries == nil {
		s.Entries = []JournalEntry{}
	}
	if s.DayProgress == nil {
		s.DayProgress = []DayProgress{}
	}
	for i := range s.Goals {
		if s.Goals[i].Milestones == nil {
			s.Goals[i].Milestones = []Milestone{}
		}
	}
	for i := range s.Entries {
		if s.Entries[i].LinkedGoals == nil {
			s.Entries[i].LinkedGoals = []string{}
		}
		if s.Entries[i].Tags == nil {
			s.Entries[i].Tags = []string{}
		}
	}
	return s
}
