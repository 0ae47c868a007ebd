package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/tutor_match/internal/model"
)

// FormatBooking форматирует запись для участника с ролью viewer в часовом поясе loc:
// студенту показывается учитель, учителю показывается студент.
func FormatBooking(booking *model.Booking, viewer model.Role, loc *time.Location) string {
	display := GetBookingStatusDisplay(booking.Status, viewer)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", display.Emoji, counterpartLine(booking, viewer))
	fmt.Fprintf(&sb, "📅 %s, %s\n", FormatDateTime(booking.Date.In(loc)), FormatDuration(booking.DurationMinutes))
	fmt.Fprintf(&sb, "📊 Статус: %s", display.Text)
	if booking.Message != "" {
		fmt.Fprintf(&sb, "\n💬 %s", booking.Message)
	}
	return sb.String()
}

func counterpartLine(booking *model.Booking, viewer model.Role) string {
	if viewer == model.RoleTutor {
		return "Студент: " + profileName(booking.Student)
	}
	return "Учитель: " + profileName(booking.Tutor)
}

func profileName(u *model.User) string {
	if u == nil || u.Name == "" {
		return "профиль удалён"
	}
	if u.Course != "" {
		return fmt.Sprintf("%s (%s)", u.Name, u.Course)
	}
	return u.Name
}

// FormatProfile форматирует карточку кандидата в поиске
func FormatProfile(u *model.User, matched []string) string {
	var sb strings.Builder
	sb.WriteString("👤 " + u.Name)
	if u.Course != "" {
		fmt.Fprintf(&sb, "\n🎓 %s", u.Course)
		if u.Year > 0 {
			fmt.Fprintf(&sb, ", %d курс", u.Year)
		}
	}
	if subjects := u.Subjects(); len(subjects) > 0 {
		label := "📚 Помогает с"
		if u.Role == model.RoleStudent {
			label = "📚 Нужна помощь с"
		}
		fmt.Fprintf(&sb, "\n%s: %s", label, strings.Join(subjects, ", "))
	}
	if len(matched) > 0 {
		fmt.Fprintf(&sb, "\n✨ Совпадения: %s", strings.Join(matched, ", "))
	}
	if u.Bio != "" {
		fmt.Fprintf(&sb, "\n\n%s", u.Bio)
	}
	return sb.String()
}
