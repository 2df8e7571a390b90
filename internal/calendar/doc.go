// Package calendar decides whether the restaurant serves meals on a date.
//
// The RU is closed on weekends and on Brazilian national public holidays,
// taken from github.com/rickar/cal/v2/br. Carnival and Corpus Christi are
// optional points and meals are served on them.
package calendar
