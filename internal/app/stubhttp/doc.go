// Package stubhttp реализует локальный стаб Pinata API для разработки и интеграционных тестов.
// Основные эндпоинты:
//   - POST /pinning/pinFileToIPFS: принимает multipart-форму, считает CID по путям и содержимому файлов.
//   - DELETE /pinning/unpin/{cid}: снимает пин, 404 если такого нет.
//   - GET /data/testAuthentication: проверка ключей.
//   - GET /health: число закреплённых CID.
//
// Все эндпоинты, кроме /health, требуют заголовки pinata_api_key и pinata_secret_api_key.
package stubhttp
