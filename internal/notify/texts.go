package notify

import (
	"fmt"
	"strings"
	"time"

	"dutybot/internal/duty"
	"dutybot/pkg/tgui"
)

const noticeDateLayout = "02.01.2006"

// PhoneLookup resolves an employee's contact phone. The fallback text is
// substituted when the roster does not know the name.
type PhoneLookup func(name string) (string, bool)

const phoneUnknown = "не указан"

func phoneOr(lookup PhoneLookup, name string) string {
	if phone, ok := lookup(name); ok {
		return phone
	}
	return phoneUnknown
}

// BroadcastNoDutyText is the Wednesday message when no shift is scheduled
// for the coming Saturday.
func BroadcastNoDutyText(saturday time.Time) string {
	return fmt.Sprintf(
		"🔔 <b>НАПОМИНАНИЕ О ДЕЖУРСТВЕ</b>\n\n"+
			"📅 <b>В эту субботу (%s) дежурных нет</b>\n\n"+
			"✅ Можно отдохнуть!\n\n"+
			"<i>Следующее уведомление: пятница в 18:00</i>",
		saturday.Format(noticeDateLayout))
}

// BroadcastDutyText is the Wednesday message announcing Saturday's shift to
// every subscriber.
func BroadcastDutyText(sh duty.Shift, saturday time.Time) string {
	names := make([]string, len(sh.Assignees))
	for i, n := range sh.Assignees {
		names[i] = string(tgui.Esc(n))
	}
	phones := make([]string, len(sh.Phones))
	for i, p := range sh.Phones {
		phones[i] = string(tgui.Esc(p))
	}

	return fmt.Sprintf(
		"🔔 <b>НАПОМИНАНИЕ О ДЕЖУРСТВЕ</b>\n\n"+
			"📅 <b>В эту субботу (%s) дежурит:</b>\n"+
			"👤 %s\n"+
			"📞 %s\n\n"+
			"⏰ <b>Время:</b> 6:50 - 8:00\n"+
			"📍 <b>Место:</b> кабинет 6002, 6 этаж, АДЦ\n\n"+
			"📋 <b>Инструкция для дежурных:</b>\n"+
			"• Пятница до 17:00 позвонить в приемную: 5600\n"+
			"• Суббота прийти к 6:50 в АДЦ\n"+
			"• Взять ключ на охране от кубов\n"+
			"• Сфотографировать открытый кабинет\n"+
			"• Находиться там до 8:00\n\n"+
			"📄 <b>Протокол:</b> Не забудьте оформить протокол разногласий\n\n"+
			"<i>Следующее напоминание: пятница в 18:00 (только дежурным)</i>",
		saturday.Format(noticeDateLayout),
		strings.Join(names, " + "),
		strings.Join(phones, " + "))
}

// TargetedText is the Friday evening reminder for one assignee of
// tomorrow's shift. The assignee's own phone and the co-assignees come
// from the roster, not from the shift record.
func TargetedText(employee string, tomorrow time.Time, sh duty.Shift, lookup PhoneLookup) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"🔔 <b>СРОЧНОЕ НАПОМИНАНИЕ ДЛЯ ДЕЖУРНОГО</b>\n\n"+
			"📅 <b>Завтра (%s) ВАШЕ ДЕЖУРСТВО!</b>\n\n"+
			"⏰ <b>ВРЕМЯ:</b> 6:50 - 8:00\n"+
			"📍 <b>МЕСТО:</b> кабинет 6002, 6 этаж, АДЦ\n\n"+
			"⚠️ <b>ВАЖНО!</b> Сегодня до 19:00 необходимо:\n"+
			"• Позвонить в приемную через внутренний телефон: <code>5600</code>\n"+
			"• Сообщить о своем дежурстве\n"+
			"• Попросить оставить ключи на вахте\n\n"+
			"✅ <b>ПЛАН НА ЗАВТРА:</b>\n"+
			"• Прийти в АДЦ к 6:50\n"+
			"• Взять ключ на охране от кубов\n"+
			"• Открыть кабинет 6002\n"+
			"• Сфотографировать открытый кабинет\n"+
			"• Находиться там до 8:00\n"+
			"• После дежурства отписать в группу\n"+
			"• Оформить протокол разногласий\n\n"+
			"📞 <b>Ваш телефон для связи:</b>\n%s\n",
		tomorrow.Format(noticeDateLayout),
		tgui.Esc(phoneOr(lookup, employee)))

	others := make([]string, 0, len(sh.Assignees))
	for _, name := range sh.Assignees {
		if name == employee {
			continue
		}
		others = append(others, fmt.Sprintf("• %s: %s", tgui.Esc(name), tgui.Esc(phoneOr(lookup, name))))
	}
	if len(others) > 0 {
		b.WriteString("\n📅 <b>Другие дежурные:</b>\n")
		b.WriteString(strings.Join(others, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// TestText is the payload of the admin "test delivery" command.
func TestText(now time.Time) string {
	return fmt.Sprintf(
		"🔔 <b>ТЕСТОВОЕ УВЕДОМЛЕНИЕ</b>\n\n"+
			"📅 <b>Это тестовое сообщение от администратора</b>\n\n"+
			"✅ Получено: %s\n\n"+
			"<i>Если вы видите это сообщение, значит система уведомлений работает корректно.</i>\n\n"+
			"<b>Режим уведомлений:</b>\n"+
			"• Среда 16:00 - всем о дежурстве в субботу\n"+
			"• Пятница 18:00 - только дежурным",
		now.Format("02.01.2006 15:04"))
}
