package bot

import (
	"fmt"
	"strings"
	"time"

	"dutybot/internal/duty"
	"dutybot/pkg/tgui"
)

const instructionsText = "<b>📝 ИНСТРУКЦИЯ ПО ДЕЖУРСТВУ</b>\n\n" +
	"<b>▸ ПЕРЕД ДЕЖУРСТВОМ (пятница):</b>\n" +
	"1. Позвонить в приемную: 5600 через вн. телефон в 17:00\n" +
	"2. Сообщить о дежурстве и попросить оставить ключи на вахте\n\n" +
	"<b>▸ В ДЕНЬ ДЕЖУРСТВА (суббота):</b>\n" +
	"1. Прийти к 6:50 в АДЦ\n" +
	"2. Взять ключ на охране от кубов\n" +
	"3. Открыть кабинет 6002\n" +
	"4. Сфотографировать открытый 6002 кабинет (как доказательство присутствия)\n" +
	"5. Находиться там до 8:00\n" +
	"6. После дежурства отписать в группу (пример: Доброе утро, никого из ЗГД не было)\n\n" +
	"<b>▸ ОФОРМЛЕНИЕ ПРОТОКОЛА:</b>\n" +
	"1. Распечатать бланк (предварительно написать дату)\n" +
	"2. Расписаться на обороте:\n" +
	"   ФИО, Должность, Модуль, Дата, Подпись\n" +
	"3. Оставить у Е.С. Денисовой"

const questionsText = "<b>❓ ЧАСТЫЕ ВОПРОСЫ</b>\n\n" +
	"<b>▸ Не могу прийти на дежурство?</b>\n" +
	"• Найти замену из списка\n" +
	"• Сообщить М.С. Портновой\n" +
	"• Пропуск = депремирование\n\n" +
	"<b>▸ Ключ не на месте?</b>\n" +
	"• Взять на охране ключ от теннисной переговорной\n" +
	"• Сидеть возле кубов\n" +
	"• В случае если пришёл ЗГД, провести в другую переговорную"

const adminPanelText = "⚙️ <b>АДМИН-ПАНЕЛЬ</b>\n\n" +
	"Доступные функции:\n\n" +
	"📅 <b>Управление графиком:</b>\n" +
	"• Добавить/удалить дежурство\n" +
	"• Просмотреть график\n\n" +
	"👥 <b>Управление сотрудниками:</b>\n" +
	"• Добавить/удалить сотрудника\n" +
	"• Изменить телефон\n" +
	"• Список сотрудников\n\n" +
	"📁 <b>Управление файлами:</b>\n" +
	"• Загрузить протокол\n" +
	"• Прикрепить протокол\n" +
	"• Удалить файлы\n" +
	"• Проверить файл\n\n" +
	"📊 <b>Статистика:</b>\n" +
	"• Активность пользователей\n\n" +
	"<i>Выберите раздел:</i>"

const adminScheduleText = "📅 <b>УПРАВЛЕНИЕ ГРАФИКОМ ДЕЖУРСТВ</b>\n\n" +
	"Доступные действия:\n\n" +
	"➕ <b>Добавить дежурство:</b>\n" +
	"Создать новую запись в графике\n\n" +
	"➖ <b>Удалить дежурство:</b>\n" +
	"Удалить существующую запись\n\n" +
	"📋 <b>Просмотреть график:</b>\n" +
	"Посмотреть текущий график\n\n" +
	"🔄 <b>Обновить график:</b>\n" +
	"Обновить отображение графика\n\n" +
	"<i>Выберите действие:</i>"

const adminEmployeesText = "👥 <b>УПРАВЛЕНИЕ СОТРУДНИКАМИ</b>\n\n" +
	"Доступные действия:\n\n" +
	"➕ <b>Добавить сотрудника:</b>\n" +
	"Добавить нового сотрудника в систему\n\n" +
	"➖ <b>Удалить сотрудника:</b>\n" +
	"Удалить сотрудника из системы\n\n" +
	"📞 <b>Изменить телефон:</b>\n" +
	"Обновить контактный номер\n\n" +
	"👥 <b>Список сотрудников:</b>\n" +
	"Просмотреть всех сотрудников\n\n" +
	"<i>Выберите действие:</i>"

const addShiftPromptText = "➕ <b>ДОБАВЛЕНИЕ ДЕЖУРСТВА</b>\n\n" +
	"<i>Для добавления дежурства отправьте сообщение в формате:</i>\n\n" +
	"<code>дата;сотрудник1,сотрудник2;телефон1,телефон2;пара</code>\n\n" +
	"<b>Примеры:</b>\n" +
	"• Для пары:\n" +
	"<code>18.04.2026г.;Иванов И.И.,Петров П.П.;8-999-111-11-11,8-999-222-22-22;да</code>\n\n" +
	"• Для одиночного:\n" +
	"<code>25.04.2026г.;Сидоров С.С.;8-999-333-33-33;нет</code>\n\n" +
	"<i>Примечание:</i> Можно добавлять только будущие дежурства.\n" +
	"Прошедшие дежурства автоматически удаляются.\n\n" +
	"<i>Отправьте сообщение с данными или нажмите 'Отмена':</i>"

const addEmployeePromptText = "➕ <b>ДОБАВЛЕНИЕ СОТРУДНИКА</b>\n\n" +
	"<i>Для добавления сотрудника отправьте сообщение в формате:</i>\n\n" +
	"<code>ФИО;телефон;telegram_username</code>\n\n" +
	"<b>Пример:</b>\n" +
	"<code>Иванов Иван Иванович;8-999-111-11-11;@ivanov</code>\n\n" +
	"<i>Важно:</i>\n" +
	"• ФИО в формате: Фамилия И.О.\n" +
	"• Телефон в формате: 8-XXX-XXX-XX-XX\n" +
	"• Telegram username с @ или без\n\n" +
	"<i>Отправьте данные или нажмите 'Отмена':</i>"

const uploadProtocolText = "📤 <b>ЗАГРУЗКА ПРОТОКОЛА</b>\n\n" +
	"<i>Для загрузки файла протокола:</i>\n\n" +
	"1. Отправьте файл в этот чат\n" +
	"2. В подписи к файлу напишите <code>протокол</code>\n\n" +
	"Файл будет автоматически сохранен.\n\n" +
	"<b>Формат файла:</b> .docx\n" +
	"<b>Рекомендуемое имя:</b> Протокол разногласий — пример.docx"

const pinProtocolText = "📎 <b>ПРИКРЕПЛЕНИЕ ПРОТОКОЛА</b>\n\n" +
	"Для прикрепления протокола в закрепленное сообщение:\n\n" +
	"1. Отправьте боту файл протокола\n" +
	"2. В подписи к файлу напишите <code>закрепить</code>"

const protocolPinnedCaption = "📄 <b>ПРОТОКОЛ РАЗНОГЛАСИЙ</b>\n\n" +
	"<i>Бланк для заполнения во время дежурства</i>\n\n" +
	"<b>ИНСТРУКЦИЯ:</b>\n" +
	"1. Скачайте файл\n" +
	"2. Распечатайте бланк\n" +
	"3. Заполните дату дежурства\n" +
	"4. Распишитесь на обороте\n" +
	"5. Оставить у Е.С. Денисовой"

const accessDeniedText = "❌ <b>ДОСТУП ЗАПРЕЩЕН</b>\n\n" +
	"Доступ только админам\n" +
	"<code>Зайдите с нужного аккаунта!!</code>"

const infoText = "ℹ️ <b>ИНФОРМАЦИЯ</b>\n\n" +
	"Я бот для управления графиком дежурств.\n" +
	"Используйте кнопки меню для навигации.\n\n" +
	"<i>Для админ-функций необходимо войти в админ-панель.</i>"

const adminInfoText = "ℹ️ <b>ИНФОРМАЦИЯ</b>\n\n" +
	"Для работы с админ-панелью используйте кнопки меню.\n" +
	"Или вернитесь в главное меню."

const loginOKText = "✅ <b>УСПЕШНЫЙ ВХОД В АДМИН-ПАНЕЛЬ</b>\n\n" +
	"Доступные функции:\n" +
	"• Управление графиком дежурств\n" +
	"• Управление сотрудниками\n" +
	"• Управление файлами\n" +
	"• Просмотр статистики\n\n" +
	"<i>Выберите действие:</i>"

const loginFailText = "❌ <b>НЕВЕРНЫЙ ЛОГИН ИЛИ ПАРОЛЬ</b>\n\n" +
	"Попробуйте снова:\n"

const loginUsageText = "❌ <b>Неверный формат команды</b>\n\n" +
	"Используйте: /admin логин пароль\n"

const logoutText = "✅ <b>ВЫ УСПЕШНО ВЫШЛИ ИЗ АДМИН-ПАНЕЛИ</b>\n\n" +
	"Все права администратора отозваны."

func welcomeText(firstName, employee, phone, username string) string {
	if employee != "" {
		return fmt.Sprintf(
			"<b>ДОБРО ПОЖАЛОВАТЬ, %s!</b>\n\n"+
				"👤 <b>Ваш профиль:</b>\n"+
				"• Сотрудник: %s\n"+
				"• Телефон: %s\n\n"+
				"<i>Выберите действие:</i>",
			tgui.Esc(firstName), tgui.Esc(employee), tgui.Esc(phone))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<b>ДОБРО ПОЖАЛОВАТЬ, %s!</b>\n\nЯ бот для управления графиком дежурств.\n\n", tgui.Esc(firstName))
	if username != "" {
		fmt.Fprintf(&b, "Ваш username: @%s\n", tgui.Esc(username))
	}
	b.WriteString("<i>Пожалуйста, выберите ваше ФИО из списка:</i>")
	return b.String()
}

func mainMenuText(employee, phone string) string {
	if employee != "" {
		return fmt.Sprintf(
			"<b>🏠 ГЛАВНОЕ МЕНЮ</b>\n\n"+
				"👤 <b>Сотрудник:</b> %s\n"+
				"📞 <b>Телефон:</b> %s\n\n"+
				"<i>Выберите действие:</i>",
			tgui.Esc(employee), tgui.Esc(phone))
	}
	return "<b>🏠 ГЛАВНОЕ МЕНЮ</b>\n\n" +
		"<i>Для доступа к функциям\nнеобходима регистрация.</i>\n\n" +
		"Выберите действие:"
}

func registeredText(employee, phone string) string {
	return fmt.Sprintf(
		"<b>✅ РЕГИСТРАЦИЯ УСПЕШНА</b>\n\n"+
			"Ваш аккаунт привязан к:\n<b>%s</b>\n\n"+
			"📞 Телефон: %s\n\n"+
			"<i>Теперь вы можете пользоваться всеми функциями бота.</i>\n\n"+
			"Выберите действие:",
		tgui.Esc(employee), tgui.Esc(phone))
}

func myDutyText(employee string, shifts []duty.Shift, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 <b>БЛИЖАЙШИЕ ДЕЖУРСТВА: %s</b>\n\n", tgui.Esc(employee))
	if len(shifts) == 0 {
		b.WriteString("Нет запланированных дежурств")
		return b.String()
	}
	if len(shifts) > 3 {
		shifts = shifts[:3]
	}
	for _, sh := range shifts {
		if sh.Paired {
			var partners []string
			for _, name := range sh.Assignees {
				if name != employee {
					partners = append(partners, string(tgui.Esc(name)))
				}
			}
			fmt.Fprintf(&b, "%s (с %s)\n", sh.DateText(), strings.Join(partners, ", "))
			fmt.Fprintf(&b, "📅 Осталось: %d дней\n\n", duty.DaysLeft(sh.Date, now))
			fmt.Fprintf(&b, "📞 %s\n\n", tgui.Esc(strings.Join(sh.Phones, ", ")))
		} else {
			b.WriteString(sh.DateText() + "\n")
			fmt.Fprintf(&b, "📅 Осталось: %d дней\n\n", duty.DaysLeft(sh.Date, now))
			fmt.Fprintf(&b, "📞 %s\n\n", tgui.Esc(sh.Phones[0]))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func removeShiftPromptText(scheduleText string) string {
	if len([]rune(scheduleText)) > 1500 {
		scheduleText = string([]rune(scheduleText)[:1500])
	}
	return "➖ <b>УДАЛЕНИЕ ДЕЖУРСТВА</b>\n\n" +
		"<i>Текущий график (только будущие дежурства):</i>\n\n" +
		scheduleText +
		"\n\nДля удаления дежурства отправьте дату в формате:\n" +
		"<code>дд.мм.ггггг.</code>\n\n" +
		"<b>Пример:</b> <code>07.02.2026г.</code>\n\n" +
		"<i>Отправьте дату или нажмите 'Отмена':</i>"
}

func removeEmployeePromptText(names []string) string {
	return "➖ <b>УДАЛЕНИЕ СОТРУДНИКА</b>\n\n" +
		"<b>Список сотрудников:</b>\n" + bulletList(names) + "\n\n" +
		"<i>Для удаления сотрудника отправьте его ФИО:</i>\n\n" +
		"<b>Пример:</b>\n<code>Иванов И.И.</code>\n\n" +
		"<i>Отправьте ФИО или нажмите 'Отмена':</i>"
}

func editPhonePromptText(names []string) string {
	return "📞 <b>ИЗМЕНЕНИЕ ТЕЛЕФОНА СОТРУДНИКА</b>\n\n" +
		"<b>Список сотрудников:</b>\n" + bulletList(names) + "\n\n" +
		"<i>Для изменения телефона отправьте сообщение в формате:</i>\n\n" +
		"<code>ФИО;новый телефон</code>\n\n" +
		"<b>Пример:</b>\n<code>Денисова Е.С.;8-987-294-93-24</code>\n\n" +
		"<i>Отправьте данные или нажмите 'Отмена':</i>"
}

func bulletList(items []string) string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = "• " + string(tgui.Esc(it))
	}
	return strings.Join(out, "\n")
}
