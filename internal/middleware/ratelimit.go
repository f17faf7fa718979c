package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	clients     = make(map[string]*clientLimiter)
	clientsMu   sync.Mutex
	cleanupOnce sync.Once
)

// RateLimit applies a per-client-IP token bucket. Used on the auth
// endpoints to slow down credential stuffing; everything else is unlimited.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	cleanupOnce.Do(func() {
		go cleanupClients()
	})

	return func(ctx *gin.Context) {
		key := ctx.ClientIP() + "|" + ctx.FullPath()

		clientsMu.Lock()
		client, exists := clients[key]
		if !exists {
			client = &clientLimiter{limiter: rate.NewLimiter(r, burst)}
			clients[key] = client
		}
		client.lastSeen = time.Now()
		clientsMu.Unlock()

		if !client.limiter.Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
			return
		}

		ctx.Next()
	}
}

func cleanupClients() {
	for range time.Tick(5 * time.Minute) {
		clientsMu.Lock()
		for key, client := range clients {
			if time.Since(client.lastSeen) > 10*time.Minute {
				delete(clients, key)
			}
		}
		clientsMu.Unlock()
	}
}
