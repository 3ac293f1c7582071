package core

import "strings"

const ukPrefix = "+44"

// FormatPhoneNumber turns a +44 number into the national form grouped as
// "07911 123 456". Other numbers are returned unchanged. Short input yields
// empty groups rather than an error.
func FormatPhoneNumber(phone string) string {
	if !strings.HasPrefix(phone, ukPrefix) {
		return phone
	}
	number := []rune("0" + phone[len(ukPrefix):])
	return string(slice(number, 0, 5)) + " " + string(slice(number, 5, 8)) + " " + string(slice(number, 8, len(number)))
}

func slice(r []rune, from, to int) []rune {
	if from > len(r) {
		from = len(r)
	}
	if to > len(r) {
		to = len(r)
	}
	return r[from:to]
}
