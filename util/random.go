package util

import (
	"math/rand"
	"strings"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// RandomInt generates a random integer between min and max
func RandomInt(min, max int) int {
	return min + rand.Intn(max-min+1)
}

// RandomFloat generates a random float in [min, max)
func RandomFloat(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// RandomString generates a random string of length n
func RandomString(n int) string {
	var sb strings.Builder
	k := len(alphabet)
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[rand.Intn(k)])
	}
	return sb.String()
}

// RandomTicker generates a random upper-case ticker symbol
func RandomTicker() string {
	return strings.ToUpper(RandomString(4))
}

// RandomSpot generates a random underlying price
func RandomSpot() float64 {
	return RandomFloat(20, 500)
}

// RandomPath generates a random positive price path of n+1 points starting at spot
func RandomPath(spot float64, n int) []float64 {
	p := make([]float64, n+1)
	p[0] = spot
	for i := 1; i <= n; i++ {
		p[i] = p[i-1] * (1 + RandomFloat(-0.05, 0.05))
	}
	return p
}
