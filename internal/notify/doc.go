// Package notify публикует события жизненного цикла runs в RabbitMQ.
//
// Publisher объявляет durable direct exchange "rollout.runs" и публикует
// JSON-события run.started / run.completed / run.aborted. Очереди и
// привязки объявляют потребители (CI-дашборды, чат-уведомления).
//
// Интеграция опциональна: включается переменной RABBITMQ_URL. Отказ
// публикации логируется runner'ом и не влияет на исход деплоя.
package notify
