package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/socialflow/internal/apperror"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per authenticated user.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perMinute requests per user with a burst of the
// same size. perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	r := &RateLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Inf,
		burst:    1,
	}
	if perMinute > 0 {
		r.limit = rate.Every(time.Minute / time.Duration(perMinute))
		r.burst = perMinute
	}
	return r
}

func (r *RateLimiter) limiter(userID int64) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limiters[userID]
	if !ok {
		l = rate.NewLimiter(r.limit, r.burst)
		r.limiters[userID] = l
	}
	return l
}

// Reserve reports whether userID may proceed now and, if not, how long to wait.
func (r *RateLimiter) Reserve(userID int64) (bool, time.Duration) {
	res := r.limiter(userID).Reserve()
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return false, delay
	}
	return true, 0
}

// Handler must run after AuthMiddleware.
func (r *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, wait := r.Reserve(GetActor(c).UserID)
		if !ok {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": apperror.ErrRateLimited.Error(),
			})
		}
		return c.Next()
	}
}
