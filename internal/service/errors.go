package service

import "errors"

// Business-rule rejections. Handlers turn these into success:false responses
// with the current snapshot; anything else is an infra error.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrNotEnoughEnergy      = errors.New("not enough energy")
	ErrDailyTapLimit        = errors.New("daily tap limit reached")
	ErrDailyAdLimit         = errors.New("daily ad watch limit reached")
	ErrAdCooldown           = errors.New("ad cooldown is still active")
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskInactive         = errors.New("task is not active")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrInvalidAmount        = errors.New("invalid withdrawal amount")
	ErrInsufficientPoints   = errors.New("insufficient points")
	ErrInvalidMethod        = errors.New("invalid payment method")
	ErrMissingDetails       = errors.New("payment details are required")
	ErrInvalidTapCount      = errors.New("invalid tap count")
)

// IsRejection reports whether err is an expected business-rule rejection.
func IsRejection(err error) bool {
	for _, e := range []error{
		ErrNotEnoughEnergy, ErrDailyTapLimit, ErrDailyAdLimit, ErrAdCooldown,
		ErrTaskNotFound, ErrTaskInactive, ErrTaskAlreadyCompleted,
		ErrInvalidAmount, ErrInsufficientPoints, ErrInvalidMethod,
		ErrMissingDetails, ErrInvalidTapCount,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
