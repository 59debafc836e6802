// Package rut реализует проверку и форматирование чилийского RUT
// (номер национального удостоверения личности) по алгоритму Modulus-11.
//
// Проверка (IsValid) и форматирование (Format) независимы:
// поле ввода показывает отформатированное значение при наборе, а проверка
// контрольного символа выполняется только при отправке формы.
package rut

import (
	"strconv"
	"strings"
)

// minLength — минимальная длина очищенного RUT: 7 цифр тела и контрольный символ.
const minLength = 8

const (
	groupSeparator = "."
	checkSeparator = "-"
)

// IsValid сообщает, совпадает ли контрольный символ RUT с вычисленным по телу.
//
// Точки и дефисы игнорируются, регистр K не важен. Для любой строки функция
// возвращает булево значение и никогда не паникует; тело, содержащее
// не-цифры, считается невалидным.
func IsValid(input string) bool {
	cleaned := strings.ToUpper(strings.NewReplacer(".", "", "-", "").Replace(input))
	if len(cleaned) < minLength {
		return false
	}

	body, check := cleaned[:len(cleaned)-1], cleaned[len(cleaned)-1:]
	expected, ok := checkDigit(body)
	if !ok {
		return false
	}
	return check == expected
}

// checkDigit вычисляет ожидаемый контрольный символ для тела RUT.
// Второе значение false, если тело содержит не-цифры.
func checkDigit(body string) (string, bool) {
	sum := 0
	multiplier := 2
	for i := len(body) - 1; i >= 0; i-- {
		c := body[i]
		if c < '0' || c > '9' {
			return "", false
		}
		sum += int(c-'0') * multiplier
		multiplier++
		if multiplier > 7 {
			multiplier = 2
		}
	}

	switch computed := 11 - sum%11; computed {
	case 11:
		return "0", true
	case 10:
		return "K", true
	default:
		return strconv.Itoa(computed), true
	}
}

// Format приводит ввод к виду 12.345.678-5.
//
// Оставляет только цифры и K, не выполняет проверку и принимает частичный
// ввод, поэтому подходит для обратной связи при наборе. Повторное применение
// к уже отформатированной строке ничего не меняет.
func Format(input string) string {
	var b strings.Builder
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'k' || r == 'K':
			b.WriteByte('K')
		}
	}
	cleaned := b.String()
	if len(cleaned) <= 1 {
		return cleaned
	}

	body, check := cleaned[:len(cleaned)-1], cleaned[len(cleaned)-1:]
	return groupThousands(body) + checkSeparator + check
}

func groupThousands(body string) string {
	head := len(body) % 3
	if head == 0 {
		head = 3
	}

	var b strings.Builder
	b.WriteString(body[:head])
	for i := head; i < len(body); i += 3 {
		b.WriteString(groupSeparator)
		b.WriteString(body[i : i+3])
	}
	return b.String()
}
