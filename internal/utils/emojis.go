package utils

import "journey/internal/database"

// Вспомогательные функции для получения названий и эмодзи категорий, настроений и типов записей

func GetCategoryName(c database.Category) string {
	if name, ok := database.CategoryNames[c]; ok {
		return name
	}
	return string(c)
}

func GetCategoryEmoji(c database.Category) string {
	if emoji, ok := database.CategoryEmojis[c]; ok {
		return emoji
	}
	return "🎯"
}

func GetMoodName(m database.Mood) string {
	if name, ok := database.MoodNames[m]; ok {
		return name
	}
	return string(m)
}

func GetMoodEmoji(m database.Mood) string {
	if emoji, ok := database.MoodEmojis[m]; ok {
		return emoji
	}
	return "📌"
}

func GetEntryTypeName(t database.EntryType) string {
	if name, ok := database.EntryTypeNames[t]; ok {
		return name
	}
	return string(t)
}
