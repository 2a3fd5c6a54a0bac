package bot

import (
	tele "gopkg.in/telebot.v4"

	"dutybot/pkg/tgui"
)

// Callback actions. Shift assignee registration carries the employee name
// as payload ("emp:<ФИО>"); everything else is a bare action.
const (
	cbFullSchedule  = "full_schedule"
	cbMyDuty        = "my_duty"
	cbProtocol      = "protocol"
	cbQuestions     = "questions"
	cbInstructions  = "instructions"
	cbChangeProfile = "change_profile"
	cbBackToMain    = "back_to_main"
	cbPickEmployee  = "emp"

	cbAdminPanel     = "admin_panel"
	cbAdminLogout    = "admin_logout"
	cbAdminSchedule  = "admin_schedule"
	cbAdminEmployees = "admin_employees"
	cbAdminFiles     = "admin_files"
	cbAdminStats     = "admin_stats"
	cbAdminAddShift  = "admin_add_duty"
	cbAdminDropShift = "admin_remove_duty"
	cbAdminRefresh   = "admin_refresh_schedule"
	cbAdminAddEmp    = "admin_add_employee"
	cbAdminDropEmp   = "admin_remove_employee"
	cbAdminEditPhone = "admin_edit_phone"
	cbAdminListEmps  = "admin_list_employees"
	cbAdminUploadDoc = "admin_upload_protocol"
	cbAdminPinDoc    = "admin_pin_protocol"
	cbAdminDeleteDoc = "admin_delete_protocol"
	cbAdminCheckDoc  = "admin_check_protocol"
)

func mainMenu(isAdmin bool) *tele.ReplyMarkup {
	kb := tgui.NewInline().
		Row(tgui.Btn("📋 Полный график", cbFullSchedule), tgui.Btn("👤 Моё дежурство", cbMyDuty)).
		Row(tgui.Btn("📄 Скачать протокол", cbProtocol), tgui.Btn("❓ Частые вопросы", cbQuestions)).
		Row(tgui.Btn("📝 Инструкция", cbInstructions), tgui.Btn("🔄 Изменить профиль", cbChangeProfile))
	if isAdmin {
		kb.Row(tgui.Btn("⚙️ Админ-панель", cbAdminPanel))
	}
	return kb.Markup()
}

func adminMenu() *tele.ReplyMarkup {
	return tgui.NewInline().
		Row(tgui.Btn("📅 Управление графиком", cbAdminSchedule), tgui.Btn("👥 Управление сотрудниками", cbAdminEmployees)).
		Row(tgui.Btn("📁 Управление файлами", cbAdminFiles), tgui.Btn("📊 Статистика", cbAdminStats)).
		Row(tgui.Btn("🔙 В главное меню", cbBackToMain), tgui.Btn("🚪 Выйти из админки", cbAdminLogout)).
		Markup()
}

func scheduleAdminMenu() *tele.ReplyMarkup {
	return tgui.NewInline().
		Row(tgui.Btn("➕ Добавить дежурство", cbAdminAddShift), tgui.Btn("➖ Удалить дежурство", cbAdminDropShift)).
		Row(tgui.Btn("📋 Просмотреть график", cbFullSchedule), tgui.Btn("🔄 Обновить график", cbAdminRefresh)).
		Row(tgui.Btn("🔙 Назад в админку", cbAdminPanel)).
		Markup()
}

func employeesAdminMenu() *tele.ReplyMarkup {
	return tgui.NewInline().
		Row(tgui.Btn("➕ Добавить сотрудника", cbAdminAddEmp), tgui.Btn("➖ Удалить сотрудника", cbAdminDropEmp)).
		Row(tgui.Btn("📞 Изменить телефон", cbAdminEditPhone), tgui.Btn("👥 Список сотрудников", cbAdminListEmps)).
		Row(tgui.Btn("🔙 Назад в админку", cbAdminPanel)).
		Markup()
}

func filesAdminMenu() *tele.ReplyMarkup {
	return tgui.NewInline().
		Row(tgui.Btn("📤 Загрузить протокол", cbAdminUploadDoc), tgui.Btn("📎 Прикрепить протокол", cbAdminPinDoc)).
		Row(tgui.Btn("🗑 Удалить протокол", cbAdminDeleteDoc), tgui.Btn("📄 Проверить файл", cbAdminCheckDoc)).
		Row(tgui.Btn("🔙 Назад в админку", cbAdminPanel)).
		Markup()
}

func backMenu() *tele.ReplyMarkup {
	return tgui.NewInline().Row(tgui.Btn("🔙 Назад в меню", cbBackToMain)).Markup()
}

func statsMenu() *tele.ReplyMarkup {
	return tgui.NewInline().
		Row(tgui.Btn("🔙 Назад в админку", cbAdminPanel)).
		Row(tgui.Btn("🔄 Обновить", cbAdminStats)).
		Markup()
}

func cancelMenu(backAction string) *tele.ReplyMarkup {
	return tgui.NewInline().Row(tgui.Btn("❌ Отмена", backAction)).Markup()
}

// employeePicker lays the roster out two names per row.
func employeePicker(names []string, withBack bool) *tele.ReplyMarkup {
	buttons := make([]tele.Btn, 0, len(names))
	for _, name := range names {
		buttons = append(buttons, tgui.Btn(name, tgui.Data(cbPickEmployee, name)))
	}
	if !withBack {
		return tgui.Grid2(buttons)
	}
	kb := tgui.NewInline()
	for i := 0; i < len(buttons); i += 2 {
		if i+1 < len(buttons) {
			kb.Row(buttons[i], buttons[i+1])
		} else {
			kb.Row(buttons[i])
		}
	}
	kb.Row(tgui.Btn("🔙 Назад в меню", cbBackToMain))
	return kb.Markup()
}
