package env

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/superpiccell/spen-minter/service/logger"
)

var validators = map[string][]string{}

var v = validator.New()

var validatorsMu = &sync.Mutex{}

func init() {
	v.RegisterValidation("required_for_env", RequiredForEnv)
}

// RegisterValidation attaches validator tags to an env var. Violations are logged on every lookup.
func RegisterValidation(name string, tags ...string) {
	validatorsMu.Lock()
	defer validatorsMu.Unlock()
	validators[name] = dedupe(append(validators[name], tags...))
}

// Validate checks every registered env var and returns the first violation.
func Validate() error {
	validatorsMu.Lock()
	defer validatorsMu.Unlock()
	names := make([]string, 0, len(validators))
	for name := range validators {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, tag := range validators[name] {
			if err := v.Var(viper.Get(name), tag); err != nil {
				return ErrInvalidEnv{Name: name, Tag: tag, Err: err}
			}
		}
	}
	return nil
}

func validate(ctx context.Context, name string) {
	validatorsMu.Lock()
	defer validatorsMu.Unlock()
	for _, tag := range validators[name] {
		err := v.Var(viper.Get(name), tag)
		if err != nil {
			logger.For(ctx).Errorf("invalid env var: %s, tag: %s, err: %s", name, tag, err.Error())
		}
	}
}

func Get[T any](ctx context.Context, name string) T {
	validate(ctx, name)

	if !viper.IsSet(name) {
		return *new(T)
	}

	it, ok := viper.Get(name).(T)
	if !ok {
		logger.For(ctx).Errorf("invalid env var: %s, expected type: %T", name, it)
		return *new(T)
	}

	return it
}

func GetIfExists[T any](ctx context.Context, name string) (T, bool) {
	validate(ctx, name)

	if !viper.IsSet(name) {
		return *new(T), false
	}

	it, ok := viper.Get(name).(T)
	if !ok {
		logger.For(ctx).Errorf("invalid env var: %s, expected type: %T", name, it)
		return *new(T), false
	}

	return it, true
}

// GetString reads an env var as a string. Values coming from the environment are always strings,
// so this is the lookup most callers want.
func GetString(ctx context.Context, name string) string {
	validate(ctx, name)
	return viper.GetString(name)
}

// GetFlag is true only when the var is the string "true", ignoring case.
func GetFlag(ctx context.Context, name string) bool {
	return strings.EqualFold(strings.TrimSpace(GetString(ctx, name)), "true")
}

func GetInt(ctx context.Context, name string) int {
	validate(ctx, name)
	return viper.GetInt(name)
}

func GetUint64(ctx context.Context, name string) uint64 {
	validate(ctx, name)
	return viper.GetUint64(name)
}

func GetFloat64(ctx context.Context, name string) float64 {
	validate(ctx, name)
	return viper.GetFloat64(name)
}

var RequiredForEnv validator.Func = func(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}

	spl := strings.Split(s, "=")
	if len(spl) != 2 {
		return false
	}

	return spl[1] == viper.GetString("ENV")
}

// ErrInvalidEnv is returned by Validate for the first env var that fails its tags.
type ErrInvalidEnv struct {
	Name string
	Tag  string
	Err  error
}

func (e ErrInvalidEnv) Error() string {
	return "invalid env var: " + e.Name + ", tag: " + e.Tag + ", err: " + e.Err.Error()
}

func (e ErrInvalidEnv) Unwrap() error {
	return e.Err
}

func dedupe(src []string) []string {
	result := src[:0]

	seen := make(map[string]bool)
	for _, x := range src {
		if !seen[x] {
			result = append(result, x)
			seen[x] = true
		}
	}
	return result
}
