// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice compliments the standard [slices] package with the small
generic helpers used when reshaping remote list payloads.
*/
package slice

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Flatten concatenates a slice of slices into a single slice, preserving order.
func Flatten[T any](groups [][]T) []T {
	size := 0
	for _, group := range groups {
		size += len(group)
	}

	result := make([]T, 0, size)
	for _, group := range groups {
		result = append(result, group...)
	}

	return result
}

// Take returns at most n leading elements of input.
func Take[T any](input []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(input) <= n {
		return input
	}
	return input[:n]
}
