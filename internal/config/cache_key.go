package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CategoryPayloadKey returns the cache key for a category's full payload
func (r *CacheKeyStruct) CategoryPayloadKey(categoryID string) string {
	return fmt.Sprintf("category:%s:payload", categoryID)
}

// CategoryListKey returns the cache key for the category summaries list
func (r *CacheKeyStruct) CategoryListKey() string {
	return "category:list"
}

// AuthSessionKey returns the cache key for a signed-in token's session
func (r *CacheKeyStruct) AuthSessionKey(jti string) string {
	return fmt.Sprintf("auth:session:%s", jti)
}

// LoginAttemptsKey returns the rate limiter key for a client address
func (r *CacheKeyStruct) LoginAttemptsKey(ip string) string {
	return fmt.Sprintf("ratelimit:auth:%s", ip)
}

var CacheKey = NewCacheKeyStruct()
