//go:build !js && !wasip1

package dispatch

const defaultStrategy = Pool
