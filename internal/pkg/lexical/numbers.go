// Package lexical spells numbers, dates and standards the way school registers print them.
package lexical

import (
	"fmt"
	"strconv"
)

var units = [...]string{
	"Zero", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = [...]string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// Speller spells non-negative integers in English short-scale words.
type Speller struct {
	// HundredsJoiner is placed between "<n> Hundred" and the remainder ("and" gives
	// "One Hundred and Five"). Empty joins with a single space.
	HundredsJoiner string
	// Max caps the spelled range; larger values fall back to decimal digits. Zero means unbounded.
	Max int
}

var (
	// LeaveSpeller is used on leave certificates.
	LeaveSpeller = Speller{HundredsJoiner: "and"}
	// BonafideSpeller is used on bonafide certificates.
	BonafideSpeller = Speller{Max: 9999}
)

// NumberToWords spells n with the leave-certificate rules:
// NumberToWords(1905) == "One Thousand Nine Hundred and Five".
func NumberToWords(n int) string {
	return LeaveSpeller.Spell(n)
}

// Spell returns the words for n, or "" for negative input.
func (s Speller) Spell(n int) string {
	if n < 0 {
		return ""
	}
	if s.Max > 0 && n > s.Max {
		return strconv.Itoa(n)
	}
	return s.spell(n)
}

func (s Speller) spell(n int) string {
	switch {
	case n < 20:
		return units[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + "-" + units[n%10]
	case n < 1000:
		head := units[n/100] + " Hundred"
		if n%100 == 0 {
			return head
		}
		if s.HundredsJoiner == "" {
			return head + " " + s.spell(n%100)
		}
		return fmt.Sprintf("%s %s %s", head, s.HundredsJoiner, s.spell(n%100))
	default:
		head := s.spell(n/1000) + " Thousand"
		if n%1000 == 0 {
			return head
		}
		return head + " " + s.spell(n%1000)
	}
}

var ordinals = [...]string{
	"", "First", "Second", "Third", "Fourth", "Fifth", "Sixth", "Seventh", "Eighth", "Ninth",
	"Tenth", "Eleventh", "Twelfth", "Thirteenth", "Fourteenth", "Fifteenth", "Sixteenth",
	"Seventeenth", "Eighteenth", "Nineteenth", "Twentieth", "Twenty-First", "Twenty-Second",
	"Twenty-Third", "Twenty-Fourth", "Twenty-Fifth", "Twenty-Sixth", "Twenty-Seventh",
	"Twenty-Eighth", "Twenty-Ninth", "Thirtieth", "Thirty-First",
}

// OrdinalWord returns "First".."Thirty-First" for a day of month, "" outside 1..31.
func OrdinalWord(day int) string {
	if day < 1 || day >= len(ordinals) {
		return ""
	}
	return ordinals[day]
}

var romanOrdinals = map[string]string{
	"V":    "Fifth",
	"VI":   "Sixth",
	"VII":  "Seventh",
	"VIII": "Eighth",
	"IX":   "Ninth",
	"X":    "Tenth",
}

// RomanToOrdinalWord maps a standard in roman numerals to its ordinal name.
// Unknown input is returned unchanged.
func RomanToOrdinalWord(roman string) string {
	if word, ok := romanOrdinals[roman]; ok {
		return word
	}
	return roman
}

// FormatStandardWithSemi renders a standard such as "Ninth IX<sup>th</sup> Semi".
func FormatStandardWithSemi(code string, semi bool) string {
	if code == "" {
		return ""
	}
	out := code + "<sup>th</sup>"
	if word := RomanToOrdinalWord(code); word != code {
		out = word + " " + out
	}
	if semi {
		out += " Semi"
	}
	return out
}

// ZeroPad formats n with at least width digits.
func ZeroPad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
