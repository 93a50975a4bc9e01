package handler

import (
	"tradepost/internal/usecase"
)

var (
	authHandler      *AuthHandler
	userHandler      *UserHandler
	categoryHandler  *CategoryHandler
	itemHandler      *ItemHandler
	messagingHandler *MessagingHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	categoryUseCase *usecase.CategoryUseCase,
	itemUseCase *usecase.ItemUseCase,
	messagingUseCase *usecase.MessagingUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	categoryHandler = NewCategoryHandler(categoryUseCase)
	itemHandler = NewItemHandler(itemUseCase)
	messagingHandler = NewMessagingHandler(messagingUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetCategoryHandler() *CategoryHandler {
	return categoryHandler
}

func GetItemHandler() *ItemHandler {
	return itemHandler
}

func GetMessagingHandler() *MessagingHandler {
	return messagingHandler
}
