package clock

import "time"

// Clock источник текущего времени (подменяется в тестах)
type Clock interface {
	Now() time.Time
}

// Real возвращает текущее время в часовом поясе клиники
type Real struct {
	Location *time.Location
}

// Now возвращает текущее время
func (c Real) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// Fixed всегда возвращает одно и то же время
type Fixed struct {
	At time.Time
}

// Now возвращает зафиксированное время
func (c Fixed) Now() time.Time {
	return c.At
}
